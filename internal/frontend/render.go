package frontend

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"personalblog/internal/models"
)

const dateLayout = "2 Jan 2006"

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderCards renders posts as a column of cards at most width cells wide.
// A non-positive width leaves cards unconstrained.
func RenderCards(posts []models.Post, width int) string {
	if len(posts) == 0 {
		return metaStyle.Render("No posts yet.")
	}

	cards := make([]string, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, renderCard(p, width, false))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// RenderPost renders one post including its full content.
func RenderPost(post models.Post, width int) string {
	return renderCard(post, width, true)
}

// RenderFallbackNotice marks a list that comes from the sample posts.
func RenderFallbackNotice() string {
	return noticeStyle.Render("Server unreachable, showing sample posts.")
}

func renderCard(p models.Post, width int, full bool) string {
	style := cardStyle
	inner := 0
	if width > 0 {
		// Width covers the padding but not the border; text gets what the
		// border and padding leave
		width = max(width, 14)
		style = style.Width(width - 2)
		inner = width - 4
	}

	lines := []string{
		titleStyle.Render(p.Title) + " " + idStyle.Render("#"+p.PostID),
		metaStyle.Render(fmt.Sprintf("%s · %s", p.Author, p.CreatedAt.Format(dateLayout))),
	}

	if len(p.Tags) > 0 {
		tags := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = "#" + t
		}
		lines = append(lines, tagStyle.Render(strings.Join(tags, " ")))
	}

	lines = append(lines, "", wrap(p.Excerpt, inner))

	if full {
		lines = append(lines, "", wrap(p.Content, inner))
		if p.FeaturedImage != "" {
			lines = append(lines, "", metaStyle.Render("image: "+p.FeaturedImage))
		}
		if !p.UpdatedAt.Equal(p.CreatedAt) {
			lines = append(lines, metaStyle.Render("updated "+p.UpdatedAt.Format(dateLayout)))
		}
	}

	return style.Render(strings.Join(lines, "\n"))
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
