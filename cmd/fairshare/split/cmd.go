// Package splitcmd implements the `fairshare split` command.
package splitcmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/go-ports/fairshare/cmd/fairshare/shared"
	"github.com/go-ports/fairshare/internal/form"
	"github.com/go-ports/fairshare/internal/money"
	"github.com/go-ports/fairshare/internal/service"
	"github.com/go-ports/fairshare/internal/splitter"
	"github.com/go-ports/fairshare/internal/store"
)

// errorOrder lists fields in the order their errors are printed.
var errorOrder = append(append([]string{}, store.FormKeys...), splitter.FieldTotalIncome)

// Command implements `fairshare split`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	income1 string
	income2 string
	expense string
	round   bool
	noSave  bool
}

// New creates the split command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "split",
		Short: "Split an expense between two incomes",
		Long: `Split an expense between two people in proportion to their incomes.

Values not given as flags fall back to the last values entered. The values
are remembered for the next run unless --no-save is set.`,
		Example: "  fairshare split --income1 3000 --income2 7000 --expense 1200\n" +
			"  fairshare split --expense 80 --round=false",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.income1, store.KeyIncome1, "", "Income of person 1")
	f.StringVar(&c.income2, store.KeyIncome2, "", "Income of person 2")
	f.StringVar(&c.expense, store.KeyExpense, "", "Expense to split")
	f.BoolVar(&c.round, store.KeyRound, true, "Round each share to a whole dollar")
	f.BoolVar(&c.noSave, "no-save", false, "Do not remember the values for the next run")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	changes := make(map[string]string)
	flags := cmd.Flags()
	for key, val := range map[string]string{
		store.KeyIncome1: c.income1,
		store.KeyIncome2: c.income2,
		store.KeyExpense: c.expense,
	} {
		if flags.Changed(key) {
			changes[key] = val
		}
	}
	if flags.Changed(store.KeyRound) {
		changes[store.KeyRound] = strconv.FormatBool(c.round)
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	f, res, err := svc.Submit(cmd.Context(), "", changes, !c.noSave)
	if errors.Is(err, splitter.ErrValidation) {
		printErrors(cmd.ErrOrStderr(), f.Errors())
		return fmt.Errorf("split: invalid input")
	}
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), f.Values(), res)
	return nil
}

func printErrors(w io.Writer, errs map[string]string) {
	fmt.Fprintln(w, "Invalid input:")
	for _, field := range errorOrder {
		if msg, ok := errs[field]; ok {
			fmt.Fprintln(w, color.Red.Sprintf("  %s: %s", field, msg))
		}
	}
}

func printResult(w io.Writer, v form.Values, res splitter.Result) {
	income1 := parseAmount(v.Income1)
	income2 := parseAmount(v.Income2)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Person", "Income", "Share"})
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)
	table.AppendBulk([][]string{
		{"Person 1", money.FormatUSD(income1), money.FormatUSD(res.Person1Share)},
		{"Person 2", money.FormatUSD(income2), money.FormatUSD(res.Person2Share)},
	})
	table.SetFooter([]string{"Total", money.FormatUSD(income1 + income2), money.FormatUSD(res.Total())})
	table.Render()
}

// parseAmount parses a raw value that already passed validation.
func parseAmount(raw string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return v
}
