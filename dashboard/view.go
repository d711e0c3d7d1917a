package dashboard

import (
	"context"
	"embed"
	"html/template"
	"io"
	"sync"

	"github.com/tidepool-org/vitals/summary"
)

//go:embed templates/page.html
var templates embed.FS

var page = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{"avatar": avatarSource}).
		ParseFS(templates, "templates/page.html"),
)

// View keeps the last presented snapshot and renders it as the dashboard page
type View struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

var _ Presenter = &View{}

func NewView() *View {
	return &View{
		snapshot: Snapshot{Display: summary.Display{Name: "Loading..."}},
	}
}

func (v *View) Present(_ context.Context, snapshot Snapshot) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snapshot = snapshot
	return nil
}

func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot
}

func (v *View) Render(w io.Writer) error {
	return page.Execute(w, v.Snapshot())
}

// The generated placeholder is a data URI that the template would otherwise reject
func avatarSource(display summary.Display) any {
	if display.AvatarGenerated {
		return template.URL(display.Avatar)
	}
	return display.Avatar
}
