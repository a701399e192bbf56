package shell

import "regexp"

var tokenPattern = regexp.MustCompile(`"([^"]*)"|'([^']*)'|(\S+)`)

// Parse splits a command line into arguments. A double- or single-quoted run
// becomes one argument without its quotes; anything else splits on
// whitespace. An unmatched quote is kept as part of a bare token.
func Parse(line string) []string {
	idx := tokenPattern.FindAllStringSubmatchIndex(line, -1)
	argv := make([]string, 0, len(idx))
	for _, m := range idx {
		// m holds start/end pairs for the whole match and groups 1..3; the
		// group that took part has a non-negative start.
		for g := 1; g <= 3; g++ {
			if start := m[2*g]; start >= 0 {
				argv = append(argv, line[start:m[2*g+1]])
				break
			}
		}
	}
	return argv
}
