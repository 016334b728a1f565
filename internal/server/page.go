package server

// indexPage is the single-file browser client. It draws frames pushed
// over the websocket onto a canvas and posts control and slider
// changes back through the JSON API.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>agentlab</title>
<style>
  body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
  canvas { background: #1a1a1a; border: 1px solid #333; }
  #panel { display: inline-block; vertical-align: top; margin-left: 2em; }
  button { font-family: monospace; margin-right: 0.5em; }
  input[type=range] { width: 160px; }
  .slider { margin: 0.4em 0; }
</style>
</head>
<body>
<h2 id="title">agentlab</h2>
<canvas id="grid" width="500" height="500"></canvas>
<div id="panel">
  <div>
    <button onclick="control('play')">play</button>
    <button onclick="control('pause')">pause</button>
    <button onclick="control('step')">step</button>
    <button onclick="control('reset')">reset</button>
  </div>
  <p id="status"></p>
  <pre id="hist"></pre>
  <div id="sliders"></div>
</div>
<script>
const colors = {"tab:blue": "#1f77b4", "tab:red": "#d62728", "tab:orange": "#ff7f0e"};
const canvas = document.getElementById("grid");
const ctx = canvas.getContext("2d");

function draw(frame) {
  document.getElementById("title").textContent = frame.model;
  document.getElementById("status").textContent =
    "step " + frame.step + (frame.running ? " | running" : " | paused") +
    (frame.series && frame.series.length
      ? " | " + frame.series_name + " " + frame.series[frame.series.length - 1].toFixed(3)
      : "");
  if (frame.histogram && frame.histogram.counts) {
    const max = Math.max(1, ...frame.histogram.counts);
    document.getElementById("hist").textContent = frame.histogram.counts
      .map((c, i) => frame.histogram.edges[i].toFixed(1).padStart(6) +
        " " + "#".repeat(Math.round(c * 20 / max)) + " " + c)
      .join("\n");
  }
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  const cw = canvas.width / frame.grid_width;
  const ch = canvas.height / frame.grid_height;
  for (const m of frame.markers) {
    ctx.fillStyle = colors[m.color] || "#aaa";
    const r = Math.max(2, Math.sqrt(m.size) / 2);
    ctx.beginPath();
    ctx.arc((m.x + 0.5) * cw, (m.y + 0.5) * ch, r, 0, 2 * Math.PI);
    ctx.fill();
  }
}

function control(action) {
  fetch("/api/control", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({action: action}),
  });
}

function renderSliders(sliders) {
  const div = document.getElementById("sliders");
  div.innerHTML = "";
  for (const s of sliders) {
    const row = document.createElement("div");
    row.className = "slider";
    row.innerHTML = s.label + " <input type='range' min='" + s.min +
      "' max='" + s.max + "' step='" + s.step + "' value='" + s.value +
      "'> <span>" + s.value + "</span>";
    const input = row.querySelector("input");
    input.onchange = () => {
      const body = {};
      body[s.name] = parseFloat(input.value);
      fetch("/api/params", {
        method: "POST",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify(body),
      });
    };
    div.appendChild(row);
  }
}

fetch("/api/params").then(r => r.json()).then(d => renderSliders(d.params));

const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = ev => {
  const event = JSON.parse(ev.data);
  if (event.type === "FRAME") draw(event.payload);
  if (event.type === "PARAMS") renderSliders(event.payload);
};
</script>
</body>
</html>`
