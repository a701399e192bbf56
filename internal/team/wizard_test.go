package team

import (
	"strings"
	"testing"
)

func seedRoster() []Employee {
	return []Employee{
		{ID: "id-john", Name: "John A", Rate: 22, Hours: 40, Role: RoleManager, Position: 1},
		{ID: "id-mark", Name: "Mark D", Rate: 16, Hours: 40, Role: RoleFullTime, Position: 2},
		{ID: "id-alissa", Name: "Alissa E", Rate: 18, Hours: 20, Role: RolePartTime, Position: 3},
	}
}

func feed(t *testing.T, res Result, roster []Employee, inputs ...string) Result {
	t.Helper()
	for _, in := range inputs {
		if res.Done() {
			t.Fatalf("wizard finished before input %q", in)
		}
		res = Step(res.State, in, roster)
	}
	return res
}

func lastText(res Result) string {
	if len(res.Lines) == 0 {
		return ""
	}
	return res.Lines[len(res.Lines)-1].Text
}

func hasLine(res Result, text string) bool {
	for _, l := range res.Lines {
		if l.Text == text {
			return true
		}
	}
	return false
}

func TestAddFlowCommitsInsert(t *testing.T) {
	roster := seedRoster()
	res := Start(OpAdd, "", roster)
	if res.State.Stage != StageName {
		t.Fatalf("stage = %v, want name", res.State.Stage)
	}
	if lastText(res) != "Name:" {
		t.Fatalf("prompt = %q", lastText(res))
	}

	res = feed(t, res, roster, "  Jane   Q ", "25.5", "30", "n")
	if !res.Done() {
		t.Fatalf("wizard still active at stage %v", res.State.Stage)
	}
	if res.State.Stage != StageIdle {
		t.Fatalf("stage = %v, want idle after completion", res.State.Stage)
	}
	if res.Commit == nil || res.Commit.Kind != CommitInsert {
		t.Fatalf("commit = %+v, want insert", res.Commit)
	}
	e := res.Commit.Employee
	if e.Name != "Jane Q" || e.Rate != 25.5 || e.Hours != 30 {
		t.Fatalf("employee = %+v", e)
	}
	if e.Role != RoleFullTime {
		t.Fatalf("role = %v, want full time for weekly pay over the threshold", e.Role)
	}
	if res.Commit.SuccessMessage() != "Successfully added Jane Q" {
		t.Fatalf("success = %q", res.Commit.SuccessMessage())
	}
}

func TestRateValidationKeepsStage(t *testing.T) {
	roster := seedRoster()
	res := feed(t, Start(OpAdd, "", roster), roster, "Jane Q")
	if res.State.Stage != StageRate {
		t.Fatalf("stage = %v, want rate", res.State.Stage)
	}
	before := res.State

	for _, bad := range []string{"abc", "-3", "0", "NaN", "Inf", ""} {
		res = Step(res.State, bad, roster)
		if res.State != before {
			t.Fatalf("input %q changed state: %+v", bad, res.State)
		}
		if !hasLine(res, "Must be a positive number.") {
			t.Fatalf("input %q: missing validation message in %+v", bad, res.Lines)
		}
		if lastText(res) != "Rate:" {
			t.Fatalf("input %q: re-prompt = %q", bad, lastText(res))
		}
		if res.Commit != nil {
			t.Fatalf("input %q produced a commit", bad)
		}
	}
}

func TestHoursAndManagerValidation(t *testing.T) {
	roster := seedRoster()
	res := feed(t, Start(OpAdd, "", roster), roster, "Jane Q", "20")

	res = Step(res.State, "169", roster)
	if res.State.Stage != StageHours || !hasLine(res, "Only 168 hours in a week.") {
		t.Fatalf("169 hours accepted: %+v", res)
	}
	res = Step(res.State, "168", roster)
	if res.State.Stage != StageManager {
		t.Fatalf("stage = %v, want manager", res.State.Stage)
	}
	res = Step(res.State, "maybe", roster)
	if res.State.Stage != StageManager || !hasLine(res, "Invalid input.") {
		t.Fatalf("bad manager flag accepted: %+v", res)
	}
	res = Step(res.State, "Y", roster)
	if res.Commit == nil || res.Commit.Employee.Role != RoleManager {
		t.Fatalf("commit = %+v, want manager", res.Commit)
	}
}

func TestNameValidation(t *testing.T) {
	roster := seedRoster()
	res := Start(OpAdd, "", roster)

	res = Step(res.State, "   ", roster)
	if res.State.Stage != StageName || !hasLine(res, "Name cannot be blank.") {
		t.Fatalf("blank name accepted: %+v", res)
	}
	res = Step(res.State, "mark d", roster)
	if res.State.Stage != StageName || !hasLine(res, `An employee named "Mark D" already exists.`) {
		t.Fatalf("duplicate name accepted: %+v", res)
	}
	res = Step(res.State, "Mark E", roster)
	if res.State.Stage != StageRate {
		t.Fatalf("stage = %v, want rate", res.State.Stage)
	}
	if res.Lines[0].Tone != ToneWarn || !strings.Contains(res.Lines[0].Text, "similar") {
		t.Fatalf("expected near-duplicate note, got %+v", res.Lines)
	}
}

func TestCancelFromEveryStage(t *testing.T) {
	roster := seedRoster()
	prefixes := [][]string{
		{},
		{"Jane Q"},
		{"Jane Q", "20"},
		{"Jane Q", "20", "30"},
	}
	for _, prefix := range prefixes {
		res := feed(t, Start(OpAdd, "", roster), roster, prefix...)
		res = Step(res.State, "  CaNcEl ", roster)
		if res.State.Stage != StageCancelled {
			t.Fatalf("after %q: stage = %v, want cancelled", prefix, res.State.Stage)
		}
		if res.State.Draft != (Draft{}) {
			t.Fatalf("after %q: draft kept: %+v", prefix, res.State.Draft)
		}
		if !res.Done() || res.Commit != nil {
			t.Fatalf("after %q: cancel should finish without commit", prefix)
		}
		if lastText(res) != "Canceled" {
			t.Fatalf("after %q: message = %q", prefix, lastText(res))
		}
	}

	edit := Start(OpEdit, "", roster)
	edit = Step(edit.State, "cancel", roster)
	if edit.State.Stage != StageCancelled {
		t.Fatalf("cancel at select: stage = %v", edit.State.Stage)
	}
}

func TestEditBlankKeepsValues(t *testing.T) {
	roster := seedRoster()
	res := Start(OpEdit, "2", roster)
	if res.State.Stage != StageName {
		t.Fatalf("stage = %v, want name", res.State.Stage)
	}
	if !hasLine(res, "Editing Mark D. Press Enter to keep current value. Type 'cancel' to abort") {
		t.Fatalf("missing edit intro: %+v", res.Lines)
	}
	if lastText(res) != "Name [Mark D]:" {
		t.Fatalf("prompt = %q", lastText(res))
	}

	res = feed(t, res, roster, "", "", "30", "")
	if res.Commit == nil || res.Commit.Kind != CommitUpdate {
		t.Fatalf("commit = %+v, want update", res.Commit)
	}
	e := res.Commit.Employee
	if e.ID != "id-mark" || e.Name != "Mark D" || e.Rate != 16 || e.Hours != 30 {
		t.Fatalf("employee = %+v", e)
	}
	if e.Role != RoleFullTime {
		t.Fatalf("role = %v, want the stored role kept", e.Role)
	}
	if res.Commit.SuccessMessage() != "Mark D edited successfully" {
		t.Fatalf("success = %q", res.Commit.SuccessMessage())
	}
}

func TestEditAllowsOwnNameInNewCase(t *testing.T) {
	roster := seedRoster()
	res := Start(OpEdit, "mark d", roster)
	res = Step(res.State, "MARK D", roster)
	if res.State.Stage != StageRate {
		t.Fatalf("stage = %v, want rate", res.State.Stage)
	}
}

func TestSelectorResolution(t *testing.T) {
	roster := seedRoster()

	rm := Start(OpRemove, "alissa e", roster)
	if rm.Commit == nil || rm.Commit.Kind != CommitDelete || rm.Commit.Employee.ID != "id-alissa" {
		t.Fatalf("remove commit = %+v", rm.Commit)
	}
	if !rm.Done() {
		t.Fatal("remove should finish immediately")
	}

	disp := Start(OpDisplay, "1", roster)
	if !disp.Done() || disp.Commit != nil {
		t.Fatalf("display result = %+v", disp)
	}
	if !hasLine(disp, "Role: Manager") {
		t.Fatalf("display lines = %+v", disp.Lines)
	}

	miss := Start(OpRemove, "4", roster)
	if !miss.Done() || miss.Commit != nil || !hasLine(miss, "No matching employee found.") {
		t.Fatalf("ordinal past the end: %+v", miss)
	}
	if miss.State.Stage != StageIdle {
		t.Fatalf("stage = %v, want idle after not found", miss.State.Stage)
	}
}

func TestSelectPromptThenResolve(t *testing.T) {
	roster := seedRoster()
	res := Start(OpDisplay, "", roster)
	if res.State.Stage != StageSelect {
		t.Fatalf("stage = %v, want select", res.State.Stage)
	}
	if res.Lines[0].Text != "01: John A" {
		t.Fatalf("first line = %q", res.Lines[0].Text)
	}

	res = Step(res.State, "", roster)
	if res.State.Stage != StageSelect || !hasLine(res, "Invalid input.") {
		t.Fatalf("blank selector: %+v", res)
	}
	res = Step(res.State, "nobody", roster)
	if !res.Done() || !hasLine(res, "No matching employee found.") {
		t.Fatalf("unknown selector: %+v", res)
	}
}

func TestEmptyRoster(t *testing.T) {
	for _, op := range []Operation{OpList, OpEdit, OpRemove, OpDisplay} {
		res := Start(op, "", nil)
		if !res.Done() || lastText(res) != "No employees found" {
			t.Fatalf("%v on empty roster: %+v", op, res)
		}
	}
}

func TestStepWhenIdleIsNoop(t *testing.T) {
	res := Step(State{}, "anything", seedRoster())
	if len(res.Lines) != 0 || res.Commit != nil || res.State.Stage != StageIdle {
		t.Fatalf("idle step = %+v", res)
	}
}

func TestAddRoleFromWeeklyPay(t *testing.T) {
	tests := []struct {
		rate, hours string
		manager     string
		want        Role
	}{
		{rate: "20", hours: "30", manager: "n", want: RoleFullTime},
		{rate: "5", hours: "7", manager: "n", want: RolePartTime},
		{rate: "5", hours: "7", manager: "y", want: RoleManager},
	}
	for _, tt := range tests {
		roster := seedRoster()
		res := feed(t, Start(OpAdd, "", roster), roster, "Zed", tt.rate, tt.hours, tt.manager)
		if res.Commit == nil {
			t.Fatalf("%s x %s: no commit", tt.rate, tt.hours)
		}
		if got := res.Commit.Employee.Role; got != tt.want {
			t.Fatalf("%s x %s manager=%s: role = %v, want %v", tt.rate, tt.hours, tt.manager, got, tt.want)
		}
	}
}

func TestEditRoleFollowsManagerFlag(t *testing.T) {
	roster := seedRoster()

	res := feed(t, Start(OpEdit, "Alissa E", roster), roster, "", "", "", "")
	if res.Commit == nil || res.Commit.Employee.Role != RolePartTime {
		t.Fatalf("blank edit changed role: %+v", res.Commit)
	}
	if res.Commit.Employee.Position != 3 {
		t.Fatalf("position = %d, want 3", res.Commit.Employee.Position)
	}

	res = feed(t, Start(OpEdit, "1", roster), roster, "", "", "", "n")
	if res.Commit == nil || res.Commit.Employee.Role != RoleFullTime {
		t.Fatalf("demoted manager role: %+v", res.Commit)
	}

	res = feed(t, Start(OpEdit, "3", roster), roster, "", "", "", "y")
	if res.Commit == nil || res.Commit.Employee.Role != RoleManager {
		t.Fatalf("promoted role: %+v", res.Commit)
	}
}

func TestResolveOrdinalFallsBackToName(t *testing.T) {
	roster := append(seedRoster(), Employee{ID: "id-404", Name: "404", Rate: 10, Hours: 10, Position: 4})

	if e, ok := Resolve(roster, "404"); !ok || e.ID != "id-404" {
		t.Fatalf("Resolve(404) = %+v, %v; want the employee named 404", e, ok)
	}
	if e, ok := Resolve(roster, " 2 "); !ok || e.ID != "id-mark" {
		t.Fatalf("Resolve(2) = %+v, %v; want Mark D", e, ok)
	}
	if _, ok := Resolve(roster, "0"); ok {
		t.Fatal("Resolve(0) matched")
	}
	if _, ok := Resolve(roster, "9"); ok {
		t.Fatal("Resolve(9) matched")
	}
}
