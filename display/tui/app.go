// Package tui implements the live watch view: three tabs fed by sampler
// subscriptions through a Bubbletea message bridge.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

// Tab identifies which tab is currently active.
type Tab int

const (
	TabNetwork Tab = iota
	TabWifi
	TabSystem
	tabCount // sentinel for wrapping
)

// tabNames maps each Tab value to its display label.
var tabNames = map[Tab]string{
	TabNetwork: "Network",
	TabWifi:    "Wi-Fi",
	TabSystem:  "System",
}

// NetworkMsg delivers a published throughput snapshot to the view.
type NetworkMsg struct {
	State sampler.NetworkState
}

// WifiMsg delivers a published link snapshot to the view.
type WifiMsg struct {
	State sampler.WifiState
}

// SystemMsg delivers a published host snapshot plus the CPU history ring.
type SystemMsg struct {
	State      sampler.SystemState
	CPUHistory []float64
}

// StatsMsg carries the samplers' loop counters for the tab footers.
type StatsMsg struct {
	Network sampler.Stats
	Wifi    sampler.Stats
	System  sampler.Stats
}

// maxRateHistory bounds the throughput rings behind the rate sparklines.
const maxRateHistory = 60

// Model is the top-level Bubbletea model for the watch view.
type Model struct {
	activeTab Tab
	width     int
	height    int

	network *sampler.NetworkState
	wifi    *sampler.WifiState
	system  *sampler.SystemState

	downHistory []float64
	upHistory   []float64
	cpuHistory  []float64

	stats       StatsMsg
	lastUpdated time.Time
	ready       bool

	help help.Model
}

// NewModel returns an initialized Model with TabNetwork active.
func NewModel() Model {
	return Model{
		activeTab: TabNetwork,
		help:      help.New(),
	}
}

// Init implements tea.Model. No initial commands are needed; all data
// arrives through the sampler bridge.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. It handles key presses, window resizes, and
// the snapshot messages from the sampler bridge.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.NextTab):
			m.activeTab = (m.activeTab + 1) % tabCount
		case key.Matches(msg, keys.PrevTab):
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case key.Matches(msg, keys.Tab1):
			m.activeTab = TabNetwork
		case key.Matches(msg, keys.Tab2):
			m.activeTab = TabWifi
		case key.Matches(msg, keys.Tab3):
			m.activeTab = TabSystem
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case NetworkMsg:
		st := msg.State
		m.network = &st
		m.downHistory = appendBounded(m.downHistory, st.DownloadRate)
		m.upHistory = appendBounded(m.upHistory, st.UploadRate)
		m.lastUpdated = time.Now()

	case WifiMsg:
		st := msg.State
		m.wifi = &st
		m.lastUpdated = time.Now()

	case SystemMsg:
		st := msg.State
		m.system = &st
		m.cpuHistory = msg.CPUHistory
		m.lastUpdated = time.Now()

	case StatsMsg:
		m.stats = msg
	}

	return m, nil
}

// appendBounded appends v and drops the oldest points past maxRateHistory.
func appendBounded(ring []float64, v float64) []float64 {
	ring = append(ring, v)
	if len(ring) > maxRateHistory {
		ring = ring[len(ring)-maxRateHistory:]
	}
	return ring
}

// View implements tea.Model. It renders the header, active tab content, and footer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	content := m.renderTabContent()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// renderHeader renders the tab bar with the active tab highlighted.
func (m Model) renderHeader() string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		name := tabNames[i]
		if i == m.activeTab {
			tabs = append(tabs, styleActiveTab.Render(name))
		} else {
			tabs = append(tabs, styleInactiveTab.Render(name))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return styleHeader.Width(m.width).Render(tabBar)
}

// renderTabContent delegates to the appropriate tab renderer based on the active tab.
func (m Model) renderTabContent() string {
	// Reserve space for header and footer (approximate).
	contentHeight := m.height - 6
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabNetwork:
		content = renderNetworkContent(m.network, m.downHistory, m.upHistory, m.stats.Network, m.width, contentHeight)
	case TabWifi:
		content = renderWifiContent(m.wifi, m.stats.Wifi, m.width, contentHeight)
	case TabSystem:
		content = renderSystemContent(m.system, m.cpuHistory, m.stats.System, m.width, contentHeight)
	default:
		content = ""
	}

	return styleContent.Width(m.width).Render(content)
}

// renderFooter renders the key help and the last push timestamp.
func (m Model) renderFooter() string {
	helpView := m.help.View(keys)
	if m.help.ShowAll {
		return styleFooter.Width(m.width).Render(helpView)
	}

	var extra string
	if !m.lastUpdated.IsZero() {
		extra = fmt.Sprintf("  Updated: %s", m.lastUpdated.Format("15:04:05"))
	}
	if gaps := m.stats.Network.GapEvents + m.stats.Wifi.GapEvents + m.stats.System.GapEvents; gaps > 0 {
		extra += fmt.Sprintf("  gaps: %d", gaps)
	}

	return styleFooter.Width(m.width).Render(helpView + extra)
}
