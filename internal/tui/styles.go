// Package tui implements the Bubble Tea storefront for neighborly.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/neighborly/internal/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorBlue)

	selectedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(styles.ColorWhite)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	priceStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGreen)

	ratingStyle = lipgloss.NewStyle().
			Foreground(styles.ColorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.ColorRed)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ColorGray).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(styles.ColorBlue)
)

// Icons and symbols.
const (
	iconCursor = "▌"
	iconStar   = "★"
	iconDot    = "•"
)

var bannerStyle = styles.BannerStyle.PaddingLeft(1)
