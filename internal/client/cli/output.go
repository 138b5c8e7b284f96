package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
)

func (a *App) printJSON(raw json.RawMessage) {
	if len(bytes.TrimSpace(raw)) == 0 {
		a.println("(empty)")
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		a.println(string(raw))
		return
	}
	a.println(buf.String())
}

func (a *App) printPage(p *models.Page) {
	for _, item := range p.Data {
		a.println(string(item))
	}
	pages := ""
	if p.Pages > 0 {
		pages = fmt.Sprintf("/%d", p.Pages)
	}
	a.println(fmt.Sprintf("total: %d, page %d%s, size %d", p.Total, p.Page, pages, p.Size))
}
