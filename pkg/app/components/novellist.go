package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/data"
)

type NovelList struct {
	Items         []data.Summary
	SelectedIndex int
	Width         int
	Height        int
}

func NewNovelList() *NovelList {
	return &NovelList{
		Items:  []data.Summary{},
		Width:  80,
		Height: 20,
	}
}

func (m *NovelList) SetItems(items []data.Summary) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *NovelList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *NovelList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *NovelList) Selected() *data.Summary {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

func (m *NovelList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No novels in library")
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	for i, item := range m.Items {
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		scenes := styles.MutedStyle.Render(fmt.Sprintf("Scenes: %d • Start: %s", item.SceneCount, item.StartSceneID))
		updated := styles.MutedStyle.Render("Updated: " + item.UpdatedAt.Local().Format("2006-01-02 15:04"))
		id := styles.MutedStyle.Render("ID: " + item.ID)

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			styles.TitleStyle.Render(title),
			scenes,
			updated,
			id,
		)

		b.WriteString(cardStyle.Width(m.Width - 4).Render(cardContent))
		b.WriteString("\n")
	}
	return b.String()
}
