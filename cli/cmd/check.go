package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/mexl/log"
	"github.com/ardnew/mexl/model"
)

// Check validates every expression attribute of one or more model files and
// renders an aggregate report. It is the default command.
type Check struct {
	Fold bool `help:"Resolve identifiers case-insensitively" negatable:""`

	Models []string `arg:"" help:"Model file(s) to validate" name:"model"`
}

// Report styles.
var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	attrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	issueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	invalid := 0

	for _, path := range c.Models {
		m, resolved, err := loadModel(ctx, path, c.Fold)

		inv := &model.Invalid{}
		if errors.As(err, &inv) {
			invalid++

			fmt.Print(renderReport(resolved, inv))

			continue
		}

		if err != nil {
			return err
		}

		fmt.Println(passStyle.Render("✔ "+resolved) +
			issueStyle.Render(" ("+modelSummary(m)+")"))
	}

	if invalid > 0 {
		return ErrInvalidModel.
			With(slog.Int("invalid", invalid), slog.Int("checked", len(c.Models))).
			Wrapf("%d of %d model file(s)", invalid, len(c.Models))
	}

	log.DebugContext(ctx, "all models valid",
		slog.Int("checked", len(c.Models)),
	)

	return nil
}

// renderReport formats every invalid expression of one model, each attribute
// with its source string and the complete list of problems found in it.
func renderReport(path string, inv *model.Invalid) string {
	var b strings.Builder

	b.WriteString(failStyle.Render("✘ " + path))
	b.WriteString(issueStyle.Render(
		" (model '" + inv.Model + "', " +
			strconv.Itoa(len(inv.Errors)) + " invalid expression(s))"))
	b.WriteByte('\n')

	for _, ee := range inv.Errors {
		b.WriteString("  ")
		b.WriteString(attrStyle.Render(ee.Owner + "." + ee.Attr))
		b.WriteString(" = ")
		b.WriteString(sourceStyle.Render(strconv.Quote(ee.Source)))
		b.WriteByte('\n')

		for _, issue := range ee.Issues {
			b.WriteString(issueStyle.Render("      " + issue.Error()))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// modelSummary condenses a valid model's shape into one parenthetical.
func modelSummary(m *model.Model) string {
	exprs := len(m.Observables) + len(m.Functions) +
		len(m.Objectives) + len(m.StopConditions)

	for _, r := range m.Reactions {
		exprs += len(r.RateLaws)
	}

	return "model '" + m.ID + "', " +
		strconv.Itoa(len(m.Species)) + " species, " +
		strconv.Itoa(len(m.Reactions)) + " reactions, " +
		strconv.Itoa(exprs) + " expressions"
}
