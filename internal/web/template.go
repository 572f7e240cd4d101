package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/ignition-interlock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(on bool) string {
		if on {
			return "on"
		}
		return "off"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Ignition Interlock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.alarm.on { color: red; }
.connected { color: green; }
.disconnected { color: red; }
pre.lcd { background: #234; color: #cfe; padding: 8px; display: inline-block; }
</style>
</head>
<body>
<h1>Ignition Interlock</h1>

<h2>Interlock</h2>
<table>
<tr><th>Phase</th><td id="phase">{{.Phase}}</td></tr>
<tr><th>Engine</th><td class="{{onOff .Phase.EngineRunning}}">{{if .Phase.EngineRunning}}running{{else}}stopped{{end}}</td></tr>
<tr><th>Ready</th><td class="{{onOff .Indicators.Ready}}">{{onOff .Indicators.Ready}}</td></tr>
<tr><th>Success</th><td class="{{onOff .Indicators.Success}}">{{onOff .Indicators.Success}}</td></tr>
<tr><th>Alarm</th><td class="alarm {{onOff .Indicators.Alarm}}">{{onOff .Indicators.Alarm}}</td></tr>
</table>

<h2>Wipers</h2>
<table>
<tr><th>Mode</th><td id="wiper-mode">{{if .Wiper.Class}}{{.Wiper.Class}}{{else}}OFF{{end}}</td></tr>
{{if .Wiper.Period}}<tr><th>Period</th><td>{{.Wiper.Period}}</td></tr>{{end}}
<tr><th>Servo duty</th><td>{{if .DutySet}}{{.Duty}}{{else}}-{{end}}</td></tr>
</table>
{{if .Display}}<pre class="lcd">{{range .Display}}{{.}}
{{end}}</pre>{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else if .Config.Broker}}disconnected{{else}}disabled{{end}}</td></tr>
{{if .Config.Broker}}<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Starts</th><td>{{.Counts.Starts}}</td></tr>
<tr><th>Inhibits</th><td>{{.Counts.Inhibits}}</td></tr>
<tr><th>Stops</th><td>{{.Counts.Stops}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render: %v", err)
	}
}
