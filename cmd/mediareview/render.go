package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	kerrors "github.com/go-kratos/kratos/v2/errors"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
	heading = color.New(color.FgCyan, color.Bold)
)

// errReported is returned once a failure has been printed; it only sets the exit status.
var errReported = errors.New("error reported")

// report prints err in red and returns errReported.
func report(w io.Writer, err error) error {
	_, _ = failure.Fprintf(w, "Error: %s\n", message(err))
	return errReported
}

// message extracts the human readable part of a service error.
func message(err error) string {
	if se := kerrors.FromError(err); se != nil && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

func printTable(w io.Writer, title string, headers []string, rows [][]string) error {
	if title != "" {
		_, _ = heading.Fprintln(w, title)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatAverage(avg *float64) string {
	if avg == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *avg)
}
