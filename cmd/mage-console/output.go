package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/mage-console/internal/doctor"
	"github.com/conn-castle/mage-console/internal/install"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/warnings"
)

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	for i, line := range strings.Split(recommendation, "\n") {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}

func printWarnings(out io.Writer, items []warnings.Warning) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, color.YellowString(messages.InstallWarningsHeader))
	for _, w := range items {
		_, _ = fmt.Fprintln(out, color.YellowString(w.String()))
	}
}

func printInstallErrors(out io.Writer, errs []*install.Error) {
	_, _ = fmt.Fprintln(out, color.RedString(messages.InstallAbortedHeader))
	for _, e := range errs {
		_, _ = fmt.Fprintf(out, messages.InstallErrorLineFmt, color.RedString(string(e.Kind)), e.Message)
	}
}

// printDiff colors a unified diff line by line.
func printDiff(out io.Writer, diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			_, _ = fmt.Fprintln(out, color.CyanString(line))
		case strings.HasPrefix(line, "+"):
			_, _ = fmt.Fprintln(out, color.GreenString(line))
		case strings.HasPrefix(line, "-"):
			_, _ = fmt.Fprintln(out, color.RedString(line))
		default:
			_, _ = fmt.Fprintln(out, line)
		}
	}
}
