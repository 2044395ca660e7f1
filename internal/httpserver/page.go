package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"

	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

const refreshMillis = 30000

//go:embed templates/index.html.tmpl
var templatesFS embed.FS

type pageData struct {
	Info          podinfo.PodInfo
	UptimeSeconds int64
	RSSMB         int64
	HeapUsedMB    int64
	HeapTotalMB   int64
	RawJSON       string
	RefreshMillis int
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{
		tmpl: template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl")),
	}
}

func (p *pageRenderer) render(info podinfo.PodInfo) ([]byte, error) {
	raw, err := marshalJSON(info, "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal pod info: %w", err)
	}

	data := pageData{
		Info:          info,
		UptimeSeconds: int64(math.Floor(info.UptimeSeconds)),
		RSSMB:         toMB(info.Memory.RSS),
		HeapUsedMB:    toMB(info.Memory.HeapUsed),
		HeapTotalMB:   toMB(info.Memory.HeapTotal),
		RawJSON:       string(raw),
		RefreshMillis: refreshMillis,
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute index template: %w", err)
	}

	return buf.Bytes(), nil
}

func toMB(b uint64) int64 {
	return int64(math.Round(float64(b) / bytesPerMB))
}
