package team

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/termjournal/internal/errs"
)

// Operation is the wizard variant chosen by the activating command.
type Operation int

const (
	OpAdd Operation = iota + 1
	OpEdit
	OpRemove
	OpDisplay
	OpList
)

func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpEdit:
		return "edit"
	case OpRemove:
		return "remove"
	case OpDisplay:
		return "display"
	case OpList:
		return "list"
	default:
		return "none"
	}
}

// Stage is a node in the wizard's transition table.
type Stage int

const (
	StageIdle Stage = iota
	StageSelect
	StageName
	StageRate
	StageHours
	StageManager
	StageComplete
	StageCancelled
)

// Draft is the record under construction.
type Draft struct {
	Name      string
	Rate      float64
	Hours     float64
	IsManager bool
}

func draftOf(e Employee) Draft {
	return Draft{Name: e.Name, Rate: e.Rate, Hours: e.Hours, IsManager: e.Role == RoleManager}
}

func (d Draft) employee(id string) Employee {
	return Employee{ID: id, Name: d.Name, Rate: d.Rate, Hours: d.Hours, Role: RoleFor(d.IsManager, d.Rate, d.Hours)}
}

// edited applies the draft to target. The stored role survives an edit
// unless the manager flag changes.
func (d Draft) edited(target Employee) Employee {
	e := Employee{ID: target.ID, Name: d.Name, Rate: d.Rate, Hours: d.Hours, Role: target.Role, Position: target.Position}
	switch {
	case d.IsManager:
		e.Role = RoleManager
	case target.Role == RoleManager:
		e.Role = RoleFor(false, d.Rate, d.Hours)
	}
	return e
}

// State is the whole wizard state. The zero value is idle.
type State struct {
	Stage  Stage
	Op     Operation
	Target Employee // resolved record for edit, remove and display
	Draft  Draft
}

// Active reports whether the wizard is waiting for input.
func (s State) Active() bool {
	switch s.Stage {
	case StageIdle, StageComplete, StageCancelled:
		return false
	default:
		return true
	}
}

// Tone tells the renderer how to style a line.
type Tone int

const (
	TonePlain Tone = iota
	ToneInfo
	ToneOK
	ToneWarn
	ToneError
	TonePrompt
)

type Line struct {
	Tone Tone
	Text string
}

type CommitKind int

const (
	CommitInsert CommitKind = iota + 1
	CommitUpdate
	CommitDelete
)

// Commit is a write the caller must persist when the wizard completes.
type Commit struct {
	Kind     CommitKind
	Employee Employee
}

// SuccessMessage is printed once the commit has been persisted.
func (c Commit) SuccessMessage() string {
	switch c.Kind {
	case CommitInsert:
		return "Successfully added " + c.Employee.Name
	case CommitUpdate:
		return c.Employee.Name + " edited successfully"
	case CommitDelete:
		return "Successfully removed " + c.Employee.Name
	default:
		return ""
	}
}

// Result is the outcome of one transition.
type Result struct {
	State  State
	Lines  []Line
	Commit *Commit
}

// Done reports whether the wizard released input.
func (r Result) Done() bool { return !r.State.Active() }

const cancelToken = "cancel"

// stage describes one node. apply reads the submitted line and returns the
// updated state; a non-nil error keeps the wizard on the same node.
type stage struct {
	prompt func(State) string
	apply  func(State, string, []Employee) (transition, error)
	auto   bool
}

type transition struct {
	state  State
	lines  []Line
	commit *Commit
}

var stages = map[Stage]stage{
	StageSelect:   {prompt: selectPrompt, apply: applySelect},
	StageName:     {prompt: namePrompt, apply: applyName},
	StageRate:     {prompt: ratePrompt, apply: applyRate},
	StageHours:    {prompt: hoursPrompt, apply: applyHours},
	StageManager:  {prompt: managerPrompt, apply: applyManager},
	StageComplete: {apply: applyComplete, auto: true},
}

var paths = map[Operation][]Stage{
	OpAdd:     {StageName, StageRate, StageHours, StageManager, StageComplete},
	OpEdit:    {StageSelect, StageName, StageRate, StageHours, StageManager, StageComplete},
	OpRemove:  {StageSelect, StageComplete},
	OpDisplay: {StageSelect, StageComplete},
}

// following returns the node after cur on op's path, or StageIdle at the end.
func following(op Operation, cur Stage) Stage {
	path := paths[op]
	for i, s := range path {
		if s == cur && i+1 < len(path) {
			return path[i+1]
		}
	}
	return StageIdle
}

// Start begins op. A non-empty selector resolves the target immediately
// instead of prompting for it.
func Start(op Operation, selector string, roster []Employee) Result {
	switch op {
	case OpList:
		if len(roster) == 0 {
			return Result{Lines: []Line{{ToneWarn, "No employees found"}}}
		}
		return Result{Lines: plain(Listing(roster))}
	case OpAdd:
		st := State{Op: op, Stage: StageName}
		return Result{State: st, Lines: []Line{
			{ToneInfo, "Adding new employee. Type 'cancel' at any time to abort."},
			{TonePrompt, namePrompt(st)},
		}}
	case OpEdit, OpRemove, OpDisplay:
		if len(roster) == 0 {
			return Result{Lines: []Line{{ToneWarn, "No employees found"}}}
		}
		st := State{Op: op, Stage: StageSelect}
		if strings.TrimSpace(selector) != "" {
			return run(st, selector, roster)
		}
		lines := plain(Listing(roster))
		lines = append(lines, Line{TonePrompt, selectPrompt(st)})
		return Result{State: st, Lines: lines}
	default:
		return Result{Lines: []Line{{ToneError, fmt.Sprintf("unknown operation %d", op)}}}
	}
}

// Step feeds one submitted line to the wizard.
func Step(st State, input string, roster []Employee) Result {
	if !st.Active() {
		return Result{State: st}
	}
	if strings.EqualFold(strings.TrimSpace(input), cancelToken) {
		return Result{State: State{Stage: StageCancelled, Op: st.Op}, Lines: []Line{{ToneError, "Canceled"}}}
	}
	return run(st, input, roster)
}

func run(st State, input string, roster []Employee) Result {
	var res Result
	for {
		node, ok := stages[st.Stage]
		if !ok {
			res.State = State{}
			return res
		}
		tr, err := node.apply(st, input, roster)
		res.Lines = append(res.Lines, tr.lines...)
		if err != nil {
			if errs.IsNotFound(err) {
				res.Lines = append(res.Lines, Line{ToneError, err.Error()})
				res.State = State{}
				return res
			}
			res.Lines = append(res.Lines, Line{ToneError, err.Error()}, Line{TonePrompt, node.prompt(st)})
			res.State = st
			return res
		}
		if tr.commit != nil {
			res.Commit = tr.commit
		}

		next := tr.state
		next.Stage = following(st.Op, st.Stage)
		if next.Stage == StageIdle {
			res.State = State{}
			return res
		}
		if !stages[next.Stage].auto {
			res.Lines = append(res.Lines, Line{TonePrompt, stages[next.Stage].prompt(next)})
			res.State = next
			return res
		}
		st, input = next, ""
	}
}

// Resolve finds an employee by 1-based ordinal or case-insensitive exact name.
// An in-range ordinal wins over a name; any other selector is matched by name.
func Resolve(roster []Employee, selector string) (Employee, bool) {
	s := strings.TrimSpace(selector)
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(roster) {
		return roster[n-1], true
	}
	for _, e := range roster {
		if strings.EqualFold(e.Name, s) {
			return e, true
		}
	}
	return Employee{}, false
}

func editing(st State) bool { return st.Op == OpEdit }

func selectPrompt(State) string { return "Select an employee by full name or number:" }

func namePrompt(st State) string {
	if editing(st) {
		return fmt.Sprintf("Name [%s]:", st.Target.Name)
	}
	return "Name:"
}

func ratePrompt(st State) string {
	if editing(st) {
		return fmt.Sprintf("Rate [%s]:", number(st.Target.Rate))
	}
	return "Rate:"
}

func hoursPrompt(st State) string {
	if editing(st) {
		return fmt.Sprintf("Hours [%s]:", number(st.Target.Hours))
	}
	return "Hours:"
}

func managerPrompt(st State) string {
	if editing(st) {
		cur := "N"
		if st.Target.Role == RoleManager {
			cur = "Y"
		}
		return fmt.Sprintf("Manager? Y/N [%s]", cur)
	}
	return "Manager? Y/N"
}

func applySelect(st State, input string, roster []Employee) (transition, error) {
	if strings.TrimSpace(input) == "" {
		return transition{}, errs.Validation("Invalid input.")
	}
	target, ok := Resolve(roster, input)
	if !ok {
		return transition{}, errs.NotFound("No matching employee found.")
	}
	st.Target = target
	st.Draft = draftOf(target)
	var lines []Line
	if editing(st) {
		lines = append(lines, Line{ToneInfo, fmt.Sprintf("Editing %s. Press Enter to keep current value. Type 'cancel' to abort", target.Name)})
	}
	return transition{state: st, lines: lines}, nil
}

func applyName(st State, input string, roster []Employee) (transition, error) {
	name := strings.Join(strings.Fields(input), " ")
	if name == "" {
		if editing(st) {
			return transition{state: st}, nil
		}
		return transition{}, errs.Validation("Name cannot be blank.")
	}
	var lines []Line
	for _, e := range roster {
		if e.ID == st.Target.ID && editing(st) {
			continue
		}
		if strings.EqualFold(e.Name, name) {
			return transition{}, errs.Validation("An employee named %q already exists.", e.Name)
		}
		if levenshtein.ComputeDistance(strings.ToLower(e.Name), strings.ToLower(name)) <= 1 {
			lines = append(lines, Line{ToneWarn, fmt.Sprintf("Note: %q is similar to existing employee %q.", name, e.Name)})
		}
	}
	st.Draft.Name = name
	return transition{state: st, lines: lines}, nil
}

func parsePositive(input string) (float64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errs.Validation("Must be a positive number.")
	}
	return v, nil
}

func applyRate(st State, input string, _ []Employee) (transition, error) {
	if strings.TrimSpace(input) == "" && editing(st) {
		return transition{state: st}, nil
	}
	v, err := parsePositive(input)
	if err != nil {
		return transition{}, err
	}
	st.Draft.Rate = v
	return transition{state: st}, nil
}

func applyHours(st State, input string, _ []Employee) (transition, error) {
	if strings.TrimSpace(input) == "" && editing(st) {
		return transition{state: st}, nil
	}
	v, err := parsePositive(input)
	if err != nil {
		return transition{}, err
	}
	if v > MaxWeeklyHours {
		return transition{}, errs.Validation("Only 168 hours in a week.")
	}
	st.Draft.Hours = v
	return transition{state: st}, nil
}

func applyManager(st State, input string, _ []Employee) (transition, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		st.Draft.IsManager = true
	case "n", "no":
		st.Draft.IsManager = false
	case "":
		if !editing(st) {
			return transition{}, errs.Validation("Invalid input.")
		}
	default:
		return transition{}, errs.Validation("Invalid input.")
	}
	return transition{state: st}, nil
}

func applyComplete(st State, _ string, _ []Employee) (transition, error) {
	switch st.Op {
	case OpAdd:
		return transition{state: st, commit: &Commit{Kind: CommitInsert, Employee: st.Draft.employee("")}}, nil
	case OpEdit:
		return transition{state: st, commit: &Commit{Kind: CommitUpdate, Employee: st.Draft.edited(st.Target)}}, nil
	case OpRemove:
		return transition{state: st, commit: &Commit{Kind: CommitDelete, Employee: st.Target}}, nil
	case OpDisplay:
		return transition{state: st, lines: plain(Details(st.Target))}, nil
	default:
		return transition{state: st}, nil
	}
}

func plain(texts []string) []Line {
	out := make([]Line, 0, len(texts))
	for _, t := range texts {
		out = append(out, Line{TonePlain, t})
	}
	return out
}
