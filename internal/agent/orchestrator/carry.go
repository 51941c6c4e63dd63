package orchestrator

import (
	"fmt"
	"strings"
)

// carry accumulates the labeled outputs of completed stages. It is passed by
// value from stage to stage.
type carry struct {
	sections []Section
}

func (c carry) with(s Section) carry {
	next := make([]Section, len(c.sections), len(c.sections)+1)
	copy(next, c.sections)
	return carry{sections: append(next, s)}
}

// render joins the sections under their agent headings.
func (c carry) render() string {
	parts := make([]string, len(c.sections))
	for i, s := range c.sections {
		parts[i] = fmt.Sprintf(sectionHeading, s.Agent, s.Content)
	}
	return strings.Join(parts, "\n\n")
}
