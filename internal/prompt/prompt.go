// Package prompt asks the interactive questions that make up a project
// request.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jywlabs/vitetail/internal/project"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrInputClosed is returned when input ends before a question is answered.
var ErrInputClosed = errors.New("input closed before all questions were answered")

// Option is one choice of a select question.
type Option struct {
	Value string
	Label string
}

// Collector reads answers line by line from in and writes questions to out.
type Collector struct {
	in          *bufio.Reader
	out         io.Writer
	defaultName string
}

// NewCollector creates a collector. defaultName replaces an empty project
// name; when empty, project.DefaultName is used.
func NewCollector(in io.Reader, out io.Writer, defaultName string) *Collector {
	if defaultName == "" {
		defaultName = project.DefaultName
	}
	return &Collector{
		in:          bufio.NewReader(in),
		out:         out,
		defaultName: defaultName,
	}
}

// readLine returns the next trimmed line. A final line without a newline
// still counts; only an empty read at EOF is an error.
func (c *Collector) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Text asks a free-form question. Empty input yields placeholder.
func (c *Collector) Text(question, placeholder string) (string, error) {
	fmt.Fprintf(c.out, "%s (%s): ", question, placeholder)
	input, err := c.readLine()
	if err != nil {
		return "", err
	}
	if input == "" {
		return placeholder, nil
	}
	return input, nil
}

// Select asks the user to pick one option by number, by exact value or
// label, or by a fuzzy query. Empty input picks the first option. Input
// that matches nothing, or several options equally well, asks again.
func (c *Collector) Select(question string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("select %q has no options", question)
	}

	fmt.Fprintln(c.out, question)
	for i, opt := range options {
		fmt.Fprintf(c.out, "   %d. %s\n", i+1, opt.Label)
	}

	for {
		fmt.Fprintf(c.out, "Your choice [1]: ")
		input, err := c.readLine()
		if err != nil {
			return "", err
		}
		if input == "" {
			return options[0].Value, nil
		}

		if opt, ok := match(input, options); ok {
			return opt.Value, nil
		}
		fmt.Fprintf(c.out, "No single option matches %q, enter a number from 1 to %d.\n", input, len(options))
	}
}

// match resolves input against options.
func match(input string, options []Option) (Option, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return Option{}, false
	}

	for _, opt := range options {
		if strings.EqualFold(input, opt.Value) || strings.EqualFold(input, opt.Label) {
			return opt, true
		}
	}

	values := make([]string, len(options))
	for i, opt := range options {
		values[i] = opt.Value
	}
	ranks := fuzzy.RankFindFold(input, values)
	switch len(ranks) {
	case 0:
		return Option{}, false
	case 1:
		return options[ranks[0].OriginalIndex], true
	}

	// Several fuzzy hits resolve only when exactly one is a prefix match.
	prefixed := -1
	for _, r := range ranks {
		if !strings.HasPrefix(strings.ToLower(r.Target), strings.ToLower(input)) {
			continue
		}
		if prefixed >= 0 {
			return Option{}, false
		}
		prefixed = r.OriginalIndex
	}
	if prefixed < 0 {
		return Option{}, false
	}
	return options[prefixed], true
}

// Confirm asks a yes/no question. Empty input yields def.
func (c *Collector) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	for {
		fmt.Fprintf(c.out, "%s [%s]: ", question, hint)
		input, err := c.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(input) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please answer y or n.")
	}
}

// validName rejects names that would escape the working directory.
func validName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q is not a valid project name", name)
	}
	return nil
}

// FrameworkOptions lists the framework choices in prompt order.
func FrameworkOptions() []Option {
	opts := make([]Option, len(project.Frameworks))
	for i, f := range project.Frameworks {
		opts[i] = Option{Value: string(f), Label: f.Label()}
	}
	return opts
}

// LinterOptions lists the linter choices in prompt order.
func LinterOptions() []Option {
	opts := make([]Option, len(project.Linters))
	for i, l := range project.Linters {
		opts[i] = Option{Value: string(l), Label: l.Label()}
	}
	return opts
}

// Collect asks every question in order and returns the resulting request.
func (c *Collector) Collect() (project.Request, error) {
	var req project.Request

	for {
		name, err := c.Text("📝 What is the name of your project?", c.defaultName)
		if err != nil {
			return req, err
		}
		if err := validName(name); err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		req.Name = name
		break
	}

	fw, err := c.Select("💡 Select a template", FrameworkOptions())
	if err != nil {
		return req, err
	}
	req.Framework = project.Framework(fw)

	req.TypeScript, err = c.Confirm(fmt.Sprintf("💭 Do you need TypeScript support for %s?", req.Framework.Label()), true)
	if err != nil {
		return req, err
	}

	linter, err := c.Select("⚙️  Select a linter", LinterOptions())
	if err != nil {
		return req, err
	}
	req.Linter = project.Linter(linter)

	req.CSSFramework, err = c.Confirm("💭 Do you need Tailwind CSS?", true)
	if err != nil {
		return req, err
	}

	fmt.Fprintln(c.out)
	return req, nil
}
