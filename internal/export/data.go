package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/san-kum/artplum/internal/driver"
	"github.com/san-kum/artplum/internal/plum"
)

// Record is the flat form of a segment used by the JSON and CSV encoders.
type Record struct {
	X0       float64 `json:"x0"`
	Y0       float64 `json:"y0"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	Angle    float64 `json:"angle"`
	Length   float64 `json:"length"`
	Lineage  int     `json:"lineage"`
	Count    int     `json:"count"`
	Rate     float64 `json:"rate"`
	Pruned   bool    `json:"pruned"`
	Children int     `json:"children"`
}

func NewRecord(seg plum.Segment) Record {
	return Record{
		X0:       seg.From.X,
		Y0:       seg.From.Y,
		X1:       seg.To.X,
		Y1:       seg.To.Y,
		Angle:    seg.Angle,
		Length:   seg.Length,
		Lineage:  seg.Lineage,
		Count:    seg.Count,
		Rate:     seg.Rate,
		Pruned:   seg.Pruned,
		Children: seg.Children,
	}
}

func Records(segments []plum.Segment) []Record {
	out := make([]Record, len(segments))
	for i, seg := range segments {
		out[i] = NewRecord(seg)
	}
	return out
}

type Document struct {
	Created  time.Time          `json:"created"`
	Seed     int64              `json:"seed"`
	Width    float64            `json:"width"`
	Height   float64            `json:"height"`
	Ratio    float64            `json:"ratio"`
	Params   plum.Params        `json:"params"`
	Stats    driver.Stats       `json:"stats"`
	Lineages int                `json:"lineages"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Segments []Record           `json:"segments"`
}

// NewDocument describes a finished (or cancelled) driver run.
func NewDocument(d *driver.Driver, segments []plum.Segment, metrics map[string]float64) Document {
	cfg := d.Config()
	doc := Document{
		Created:  time.Now(),
		Seed:     cfg.Seed,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Params:   cfg.Params,
		Stats:    d.Stats(),
		Metrics:  metrics,
		Segments: Records(segments),
	}
	if surf := d.Surface(); surf != nil {
		doc.Ratio = surf.Ratio()
	}
	if sched := d.Scheduler(); sched != nil {
		doc.Lineages = sched.Lineages()
	}
	return doc
}

func JSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

var csvHeader = []string{"x0", "y0", "x1", "y1", "angle", "length", "lineage", "count", "rate", "pruned", "children"}

func CSV(w io.Writer, segments []plum.Segment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, seg := range segments {
		row := []string{
			f(seg.From.X), f(seg.From.Y), f(seg.To.X), f(seg.To.Y),
			f(seg.Angle), f(seg.Length),
			strconv.Itoa(seg.Lineage), strconv.Itoa(seg.Count),
			f(seg.Rate), strconv.FormatBool(seg.Pruned), strconv.Itoa(seg.Children),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
