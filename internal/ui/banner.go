package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	bannerColor = "#4AA8FF" // sky blue
	infoColor   = "#808080"
)

// VENTO ASCII art (filled block style)
var ventoArt = []string{
	"    ██╗   ██╗███████╗███╗   ██╗████████╗ ██████╗ ",
	"    ██║   ██║██╔════╝████╗  ██║╚══██╔══╝██╔═══██╗",
	"    ██║   ██║█████╗  ██╔██╗ ██║   ██║   ██║   ██║",
	"    ╚██╗ ██╔╝██╔══╝  ██║╚██╗██║   ██║   ██║   ██║",
	"     ╚████╔╝ ███████╗██║ ╚████║   ██║   ╚██████╔╝",
	"      ╚═══╝  ╚══════╝╚═╝  ╚═══╝   ╚═╝    ╚═════╝ ",
}

// Banner writes the VENTO banner to w.
func Banner(w io.Writer) {
	_, _ = fmt.Fprintln(w)

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(bannerColor)).
		Bold(true)

	for _, line := range ventoArt {
		_, _ = fmt.Fprintln(w, style.Render(line))
	}

	_, _ = fmt.Fprintln(w)
}

// BannerWithInfo writes the banner followed by version and model info.
func BannerWithInfo(w io.Writer, version, model string) {
	Banner(w)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(infoColor)).
		Italic(true)

	info := fmt.Sprintf("Version: %s | Model: %s", version, model)
	_, _ = fmt.Fprintln(w, infoStyle.Render(info))
	_, _ = fmt.Fprintln(w)
}

// BannerString returns the unstyled banner text.
func BannerString() string {
	var sb strings.Builder
	for _, line := range ventoArt {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
