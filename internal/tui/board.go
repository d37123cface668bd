package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/hanoi/internal/game"
	"github.com/npratt/hanoi/internal/session"
)

// columnWidth is the width of one tower column for n disks. The widest disk
// is 2n+1 cells and keeps one blank cell on each side.
func columnWidth(n int) int {
	return 2*n + 3
}

// diskLabel renders a disk of the given size as 2*size+1 cells with its
// number in the middle.
func diskLabel(size int) string {
	side := strings.Repeat(" ", size)
	return side + strconv.Itoa(size%10) + side
}

// plainDisk is diskLabel in ASCII: size 1 is "<1>", size 3 is "<==3==>".
func plainDisk(size int) string {
	side := strings.Repeat("=", size-1)
	return "<" + side + strconv.Itoa(size%10) + side + ">"
}

// center pads s to width w, centred. Width is measured in cells.
func center(s string, w int) string {
	sw := lipgloss.Width(s)
	if sw >= w {
		return s
	}
	left := (w - sw) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-sw-left)
}

// renderBoard draws the three towers with lipgloss colours.
func renderBoard(snap session.Snapshot, th theme, cursor int) string {
	n := snap.DiskCount
	colW := columnWidth(n)
	height := n + 1

	var rows []string
	for r := 0; r < height; r++ {
		level := height - 1 - r
		var row strings.Builder
		for i, tower := range snap.Towers {
			var cell string
			if level < len(tower) {
				size := tower[level]
				style := lipgloss.NewStyle().
					Background(diskColor(size)).
					Foreground(lipgloss.Color("231"))
				if snap.Selected == i && level == len(tower)-1 {
					style = th.Highlight.Background(diskColor(size)).Foreground(lipgloss.Color("16"))
				}
				cell = style.Render(diskLabel(size))
			} else {
				cell = th.Rod.Render("│")
			}
			row.WriteString(center(cell, colW))
		}
		rows = append(rows, row.String())
	}

	rows = append(rows, th.Base.Render(strings.Repeat("▀", colW*game.TowerCount)))

	var labels strings.Builder
	for i := range snap.Towers {
		text := fmt.Sprintf("Tower %d", i+1)
		style := th.Label
		switch {
		case snap.Selected == i:
			text = "▲ " + text
			style = th.LabelSelected
		case cursor == i:
			text = "› " + text
			style = th.LabelCursor
		}
		labels.WriteString(center(style.Render(text), colW))
	}
	rows = append(rows, labels.String())

	return strings.Join(rows, "\n")
}

// renderPlainBoard draws the towers as ASCII for line mode.
func renderPlainBoard(snap session.Snapshot) string {
	n := snap.DiskCount
	colW := columnWidth(n)
	height := n + 1

	var sb strings.Builder
	for r := 0; r < height; r++ {
		level := height - 1 - r
		var row strings.Builder
		for _, tower := range snap.Towers {
			cell := "|"
			if level < len(tower) {
				cell = plainDisk(tower[level])
			}
			row.WriteString(center(cell, colW))
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat("=", colW*game.TowerCount))
	sb.WriteByte('\n')

	var labels strings.Builder
	for i := range snap.Towers {
		label := strconv.Itoa(i + 1)
		if snap.Selected == i {
			label = "[" + label + "]"
		}
		labels.WriteString(center(label, colW))
	}
	sb.WriteString(strings.TrimRight(labels.String(), " "))
	return sb.String()
}
