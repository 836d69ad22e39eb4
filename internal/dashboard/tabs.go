package dashboard

const (
	TabJobs      = "jobs"
	TabCompanies = "companies"
	TabLogs      = "logs"
	TabMetrics   = "metrics"
)

type Tab struct {
	ID     string
	Label  string
	Active bool
}

// PanelID is the id of the content panel a tab controls.
func (t Tab) PanelID() string {
	return t.ID + "-tab"
}

// TabSet is an ordered set of tabs with exactly one active tab.
type TabSet struct {
	Tabs []Tab
}

func DefaultTabs() TabSet {
	return NewTabSet(
		Tab{ID: TabJobs, Label: "Jobs"},
		Tab{ID: TabCompanies, Label: "Companies"},
		Tab{ID: TabLogs, Label: "Run Logs"},
		Tab{ID: TabMetrics, Label: "Metrics"},
	)
}

func NewTabSet(tabs ...Tab) TabSet {
	s := TabSet{Tabs: append([]Tab(nil), tabs...)}
	if len(tabs) == 0 {
		return s
	}
	return s.Select(tabs[0].ID)
}

// Select returns a copy of the set with id active and every other tab
// inactive. An unknown id activates the first tab.
func (s TabSet) Select(id string) TabSet {
	if !s.Has(id) && len(s.Tabs) > 0 {
		id = s.Tabs[0].ID
	}
	out := TabSet{Tabs: make([]Tab, len(s.Tabs))}
	for i, t := range s.Tabs {
		t.Active = t.ID == id
		out.Tabs[i] = t
	}
	return out
}

func (s TabSet) Has(id string) bool {
	for _, t := range s.Tabs {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s TabSet) Active() Tab {
	for _, t := range s.Tabs {
		if t.Active {
			return t
		}
	}
	return Tab{}
}

func (s TabSet) IsActive(id string) bool {
	return s.Active().ID == id
}
