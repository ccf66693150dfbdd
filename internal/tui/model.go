package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coinquest/internal/engine"
	"coinquest/internal/reward"
	"coinquest/internal/storage"
	"coinquest/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	kids     []storage.Kid
	kidIdx   int
	missions []storage.Mission
	selected int

	streaks map[reward.StreakType]reward.StreakData
	summary reward.AchievementStats

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	kids []storage.Kid
	err  error
}

type kidViewMsg struct {
	missions []storage.Mission
	streaks  map[reward.StreakType]reward.StreakData
	summary  reward.AchievementStats
	err      error
}

type completedMsg struct {
	res *engine.CompleteResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		kids, err := m.svc.Kids(m.ctx)
		return loadedMsg{kids: kids, err: err}
	}
}

func (m boardModel) kidViewCmd() tea.Cmd {
	if len(m.kids) == 0 {
		return nil
	}
	kid := m.kids[m.kidIdx]
	return func() tea.Msg {
		m.svc.RecordLogin(m.ctx, kid.ID)
		missions, err := m.svc.FilteredMissions(m.ctx, kid.Age)
		if err != nil {
			return kidViewMsg{err: err}
		}
		return kidViewMsg{
			missions: missions,
			streaks:  m.svc.Streaks().All(m.ctx, kid.ID),
			summary:  m.svc.Achievements().Summary(m.ctx, kid.ID),
		}
	}
}

func (m boardModel) completeCmd(kidID, missionID string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteMission(m.ctx, kidID, missionID, "")
		return completedMsg{res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.kids = msg.kids
		if m.kidIdx >= len(m.kids) {
			m.kidIdx = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, m.kidViewCmd()
	case kidViewMsg:
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.missions = msg.missions
		m.streaks = msg.streaks
		m.summary = msg.summary
		if m.selected >= len(m.missions) {
			m.selected = len(m.missions) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("%s earned +%d (balance %d)", msg.res.Kid.Name, msg.res.CoinsAwarded, msg.res.Kid.Coins)
		if len(msg.res.NewAchievements) > 0 {
			m.lastLog += fmt.Sprintf("  %s %s!", ui.IconTrophy, msg.res.NewAchievements[0].Name)
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "tab", "right", "l":
			if len(m.kids) > 1 {
				m.kidIdx = (m.kidIdx + 1) % len(m.kids)
				return m, m.kidViewCmd()
			}
			return m, nil
		case "shift+tab", "left", "h":
			if len(m.kids) > 1 {
				m.kidIdx = (m.kidIdx + len(m.kids) - 1) % len(m.kids)
				return m, m.kidViewCmd()
			}
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.missions)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			if len(m.kids) == 0 || m.selected < 0 || m.selected >= len(m.missions) {
				return m, nil
			}
			kid := m.kids[m.kidIdx]
			mission := m.missions[m.selected]
			if isCompleted(kid, mission.ID) {
				m.lastLog = "Already done today."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %q…", mission.Title)
			return m, m.completeCmd(kid.ID, mission.ID)
		}
	}
	return m, nil
}

func isCompleted(kid storage.Kid, missionID string) bool {
	for _, done := range kid.CompletedMissions {
		if done == missionID {
			return true
		}
	}
	return false
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	if len(m.kids) == 0 && !m.loading {
		return ui.Muted.Render("No kids yet. Add one with: cq kid add <name> --age <n>") + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if len(m.kids) == 0 {
		return "CoinQuest — loading…"
	}
	kid := m.kids[m.kidIdx]
	var tabs []string
	for i, k := range m.kids {
		name := k.Name
		if i == m.kidIdx {
			name = ui.SelectedRow.Render(" " + name + " ")
		}
		tabs = append(tabs, name)
	}
	return fmt.Sprintf("CoinQuest | %s | %s  %s  %s %d",
		strings.Join(tabs, " "), ui.Coins(kid.Coins), ui.Money(kid.RealMoney), ui.IconStar, kid.Stars)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Streaks"}
	for _, typ := range []reward.StreakType{reward.StreakLogin, reward.StreakMission, reward.StreakGame, reward.StreakPerfect} {
		info := reward.StreakTypes[typ]
		data := m.streaks[typ]
		lines = append(lines, fmt.Sprintf("- %s %s %d (best %d)", info.Emoji, info.Name, data.Current, data.Best))
	}
	lines = append(lines, "")
	lines = append(lines, "Achievements")
	lines = append(lines, fmt.Sprintf("- %d unlocked, %d pts", m.summary.Total, m.summary.TotalPoints))
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- tab/←/→: switch kid")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Today's Missions")
	if len(m.missions) == 0 {
		out = append(out, "(none today)")
		return strings.Join(out, "\n")
	}

	kid := m.kids[m.kidIdx]
	for i, mission := range m.missions {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		check := "[ ]"
		if isCompleted(kid, mission.ID) {
			check = "[x]"
		}
		kind := ""
		if !mission.IsDaily {
			kind = " *"
		}
		out = append(out, fmt.Sprintf("%s%s %s (+%d)%s", cursor, check, mission.Title, mission.Reward, kind))
	}
	out = append(out, "")
	out = append(out, ui.Muted.Render("* custom mission"))
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
