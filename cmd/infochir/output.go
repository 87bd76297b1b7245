// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/infochir/catalog/internal/listing"
	"github.com/infochir/catalog/pkg/types"
)

var (
	yearColor  = lipgloss.Color("#0969DA")
	dateColor  = lipgloss.Color("#A371F7")
	dimColor   = lipgloss.Color("#6E7681")
	countColor = lipgloss.Color("#2DA44E")

	yearStyle = lipgloss.NewStyle().
			Foreground(yearColor).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(dateColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	countStyle = lipgloss.NewStyle().
			Foreground(countColor)
)

const (
	defaultTitleWidth = 70
	minTitleWidth     = 30

	// rowOverhead is the width of the indent, date, and counter columns.
	rowOverhead = 32
)

// titleWidth fits the title column to the terminal when w is one.
func titleWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTitleWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return defaultTitleWidth
	}
	return max(cols-rowOverhead, minTitleWidth)
}

// renderListing prints a listing either flat or grouped by year.
func renderListing(w io.Writer, res listing.Result[types.ListableRecord], years bool) {
	width := titleWidth(w)
	if len(res.Sorted) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	if !years {
		for _, r := range res.Sorted {
			renderRecord(w, r, width)
		}
	} else {
		for _, g := range res.Groups() {
			fmt.Fprintln(w, yearStyle.Render(fmt.Sprintf("%d", g.Year)))
			for _, r := range g.Members {
				renderRecord(w, r, width)
			}
			fmt.Fprintln(w)
		}
		if len(res.Undated) > 0 {
			fmt.Fprintln(w, yearStyle.Render("Sans date"))
			for _, r := range res.Undated {
				renderRecord(w, r, width)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\n%d records", len(res.Sorted))
	if len(res.Categories) > 0 {
		fmt.Fprintf(w, "  %s", dimStyle.Render("categories: "+strings.Join(res.Categories, ", ")))
	}
	fmt.Fprintln(w)
}

func renderRecord(w io.Writer, r types.ListableRecord, width int) {
	date := "----------"
	if r.HasDate() {
		date = r.Date.Format("2006-01-02")
	}
	fmt.Fprintf(w, "  %s  %-*s  %s\n",
		dateStyle.Render(date),
		width, truncate(r.Title, width),
		countStyle.Render(fmt.Sprintf("↓%d ↗%d", r.Downloads, r.Shares)),
	)
	if len(r.Articles) > 0 {
		fmt.Fprintf(w, "              %s\n", dimStyle.Render(fmt.Sprintf("%d articles", len(r.Articles))))
	}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
