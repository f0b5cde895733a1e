package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/blockstats"
)

const ToolName = "zk-blocktime-soundness"

// Document is the machine-readable form of one run.
type Document struct {
	blockstats.Stats
	Speed          blockstats.Speed     `json:"speed"`
	Stability      blockstats.Stability `json:"stability"`
	RPC            string               `json:"rpc"`
	TimestampUTC   string               `json:"timestamp_utc"`
	ElapsedSeconds float64              `json:"elapsed_seconds"`
}

func NewDocument(stats blockstats.Stats, stability blockstats.StabilityReport, rpcURL string, now time.Time, elapsed time.Duration) Document {
	return Document{
		Stats:          stats,
		Speed:          stats.Speed(),
		Stability:      stability.Label,
		RPC:            rpcURL,
		TimestampUTC:   FormatTimestamp(now),
		ElapsedSeconds: math.Round(elapsed.Seconds()*100) / 100,
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// Printer writes the human-readable report line by line.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Header(rpcURL string, startBlock int64, samples int, now time.Time) {
	p.line("🕒 Timestamp: %s", FormatTimestamp(now))
	p.line("🔧 %s", ToolName)
	p.line("🔗 RPC: %s", rpcURL)
	p.line("🧱 Start Block: %d", startBlock)
	p.line("📊 Sample Size: %d", samples)
}

func (p *Printer) Stats(stats blockstats.Stats) {
	p.line("🧭 Range: %d → %d", stats.StartBlock, stats.EndBlock)
	p.line("⏱️ Average Block Time: %.2f seconds", stats.AvgBlockTime)
	p.line("⛽ Avg Gas Utilization: %.2f%%", stats.AvgGasUtilization)

	switch stats.Speed() {
	case blockstats.SpeedSlow:
		p.line("🐢 Slow network — high latency between blocks.")
	case blockstats.SpeedFast:
		p.line("⚡ Fast block production — optimal performance.")
	default:
		p.line("⚖️ Normal block time detected.")
	}
}

func (p *Printer) Stability(r blockstats.StabilityReport) {
	switch r.Label {
	case blockstats.StabilityStable:
		p.line("🟢 Network Stability: Stable block production ⏱️")
	case blockstats.StabilitySlightlyVariable:
		p.line("🟡 Network Stability: Slightly variable timing ⚖️")
	case blockstats.StabilityVolatile:
		p.line("🔴 Network Stability: Volatile timing ⚠️")
	default:
		p.line("⚠️ Could not compute stability analysis.")
	}
}

func (p *Printer) Footer(elapsed time.Duration) {
	p.line("✅ Completed in %.2fs", elapsed.Seconds())
}

func (p *Printer) Failure(err error) {
	p.line("❌ %v", err)
}

func (p *Printer) JSON(doc Document) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

func (p *Printer) line(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}
