package types

// Position is a window's top-left corner in desktop coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window's dimensions in pixels.
type Size struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// WorkspaceState is the per-window navigation state owned by the instance
// record so it survives re-render and persistence. History follows browser
// semantics: Index points at the current entry, forward entries are
// truncated on a fresh navigation.
type WorkspaceState struct {
	CurrentPath  string   `json:"current_path"`
	History      []string `json:"history"`
	HistoryIndex int      `json:"history_index"`
	SelectedPath string   `json:"selected_path,omitempty"`
}

// Instance is one open window of an application.
type Instance struct {
	ID           string                 `json:"id"`
	AppID        string                 `json:"app_id"`
	Title        string                 `json:"title"`
	IsOpen       bool                   `json:"is_open"`
	IsForeground bool                   `json:"is_foreground"`
	IsMinimized  bool                   `json:"is_minimized"`
	IsLoading    bool                   `json:"is_loading"`
	Position     Position               `json:"position"`
	Size         Size                   `json:"size"`
	CreatedAt    int64                  `json:"created_at"`
	InitialData  map[string]interface{} `json:"initial_data,omitempty"`
	Workspace    *WorkspaceState        `json:"workspace,omitempty"`
}

// Clone returns a deep copy safe to hand outside the manager's lock.
func (i *Instance) Clone() *Instance {
	c := *i
	if i.InitialData != nil {
		c.InitialData = make(map[string]interface{}, len(i.InitialData))
		for k, v := range i.InitialData {
			c.InitialData[k] = v
		}
	}
	if i.Workspace != nil {
		w := *i.Workspace
		w.History = append([]string(nil), i.Workspace.History...)
		c.Workspace = &w
	}
	return &c
}

// InstanceStats summarizes the window manager.
type InstanceStats struct {
	Total        int     `json:"total"`
	Open         int     `json:"open"`
	Minimized    int     `json:"minimized"`
	Loading      int     `json:"loading"`
	ForegroundID *string `json:"foreground_id,omitempty"`
}
