package handlers

import (
	"html/template"
	"net/http"

	"caro-game/internal/agent"
	"caro-game/internal/game"

	"github.com/rs/zerolog/log"
)

const apiDocsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Caro Engine API</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 960px; margin: 0 auto; padding: 24px; }
        h1, h2 { color: #16213e; }
        code, pre { background: #f4f4f8; border-radius: 4px; }
        pre { padding: 12px; overflow-x: auto; }
        table { border-collapse: collapse; width: 100%; }
        td, th { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
        .method { font-weight: bold; color: #764ba2; }
    </style>
</head>
<body>
    <h1>Caro Engine API</h1>
    <p>Boards are {{.Size}}x{{.Size}} arrays indexed <code>board[x][y]</code>. Cells hold 0 (empty), 1 or 2.
       {{.WinLength}} or more in a row wins.</p>

    <h2>Endpoints</h2>
    <table>
        <tr><th>Method</th><th>Path</th><th>Description</th></tr>
        {{range .Endpoints}}<tr><td class="method">{{.Method}}</td><td><code>{{.Path}}</code></td><td>{{.Description}}</td></tr>
        {{end}}
    </table>

    <h2>Difficulties</h2>
    <table>
        <tr><th>Name</th><th>Level</th><th>Pipeline</th></tr>
        {{range .Difficulties}}<tr><td><code>{{.Name}}</code></td><td>{{.Level}}</td><td>{{.Pipeline}}</td></tr>
        {{end}}
    </table>

    <h2>Move request</h2>
    <pre>POST /api/ai/move
{
  "board": [[0,0,...], ...],
  "player": 1,
  "difficulty": "hard"
}</pre>
    <pre>{
  "requestId": "5f0c...",
  "x": 7, "y": 8,
  "stage": "search",
  "score": 1240, "depth": 4, "nodes": 18211,
  "cached": false,
  "elapsedMs": 41
}</pre>
    <p>Malformed boards or players answer 400; a full board answers 422.</p>

    <h2>WebSocket</h2>
    <pre>{"type": "move_request", "requestId": "r1", "board": [...], "player": 2, "difficulty": "ultimate"}</pre>
    <p>Replies are <code>{"type": "move", ...}</code> with the fields above, or <code>{"type": "error", "error": "..."}</code>.</p>
</body>
</html>`

var apiDocsTemplate = template.Must(template.New("docs").Parse(apiDocsHTML))

type docEndpoint struct {
	Method, Path, Description string
}

type docDifficulty struct {
	Name     string
	Level    int
	Pipeline string
}

var pipelines = map[agent.Difficulty]string{
	agent.Easy:     "win, block a three or four, then a two-ply threat map",
	agent.Normal:   "win, block, double threat, central strategy, then a three-ply heuristic",
	agent.Hard:     "win, block a four, double threat, then a depth 4 alpha-beta search",
	agent.Ultimate: "forced-win solver for both sides, tactics, strategic control, then iterative deepening with playout refinement",
}

// ServeAPIDocs handles GET /api/docs.
func ServeAPIDocs(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Size, WinLength int
		Endpoints       []docEndpoint
		Difficulties    []docDifficulty
	}{
		Size:      game.Size,
		WinLength: game.WinLength,
		Endpoints: []docEndpoint{
			{"POST", "/api/ai/move", "Choose a move for a position"},
			{"GET", "/api/ai/difficulties", "List difficulty tiers"},
			{"GET", "/api/ai/decisions?limit=N", "Most recent logged decisions"},
			{"GET", "/ws/ai", "Move requests over WebSocket"},
			{"GET", "/health", "Liveness check"},
		},
	}
	for _, d := range agent.Difficulties {
		data.Difficulties = append(data.Difficulties, docDifficulty{Name: d.String(), Level: int(d), Pipeline: pipelines[d]})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := apiDocsTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("failed to render API docs")
	}
}
