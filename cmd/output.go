package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"cineconnect-cli/model"
)

var errAborted = errors.New("aborted")

func newTable(cmd *cobra.Command, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(header)
	return t
}

// detailTable renders label/value pairs as a two-column table.
func detailTable(cmd *cobra.Command, rows ...table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, WidthMin: 14}, {Number: 2, WidthMax: 60}})
	t.AppendRows(rows)
	t.Render()
}

func money(value model.Decimal) string {
	if value.IsZero() {
		return "-"
	}
	return "Q" + value.String()
}

func moneyFloat(value float64) string {
	return fmt.Sprintf("Q%.2f", value)
}

func percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

func clock(value string) string {
	if len(value) >= 5 {
		return value[:5]
	}
	return value
}

// promptText asks for a value unless the flag already carried one.
func promptText(cmd *cobra.Command, label string, current string, mask bool) (string, error) {
	if strings.TrimSpace(current) != "" {
		return current, nil
	}
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New(label + " is required")
			}
			return nil
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: nopWriteCloser{cmd.ErrOrStderr()},
	}
	if mask {
		prompt.Mask = '*'
	}
	value, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", errAborted
		}
		return "", err
	}
	return value, nil
}

// confirm asks a yes/no question; yes skips it.
func confirm(cmd *cobra.Command, label string, yes bool) error {
	if yes {
		return nil
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopWriteCloser{cmd.ErrOrStderr()},
	}
	if _, err := prompt.Run(); err != nil {
		return errAborted
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
