package api

// previewPage is the single-page icon preview. It lists the generated assets
// and reloads itself whenever the websocket reports a fresh run.
const previewPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>iconforge preview</title>
<style>
  body { font-family: sans-serif; background: #1e1e2e; color: #eee; margin: 2em; }
  .icons { display: flex; gap: 2em; align-items: flex-end; flex-wrap: wrap; }
  .icons figure { margin: 0; text-align: center; }
  .icons img { image-rendering: pixelated; background: #333; }
  figcaption { font-size: 0.8em; margin-top: 0.5em; color: #aaa; }
  button { margin-top: 2em; padding: 0.5em 1.5em; }
</style>
</head>
<body>
<h1>iconforge preview</h1>
<div class="icons" id="icons"></div>
<button onclick="regenerate()">Regenerate</button>
<script>
async function load() {
  const resp = await fetch('/api/v1/assets');
  if (!resp.ok) return;
  const res = await resp.json();
  const div = document.getElementById('icons');
  div.innerHTML = '';
  for (const a of res.assets) {
    if (a.kind !== 'png' && a.kind !== 'svg') continue;
    const fig = document.createElement('figure');
    const img = document.createElement('img');
    const name = a.path.split(/[\\/]/).pop();
    img.src = '/icons/' + name + '?t=' + Date.now();
    if (a.size) { img.width = a.size; img.height = a.size; }
    const cap = document.createElement('figcaption');
    cap.textContent = a.path + (a.backend ? ' (' + a.backend + ')' : '');
    fig.appendChild(img);
    fig.appendChild(cap);
    div.appendChild(fig);
  }
}
async function regenerate() {
  await fetch('/api/v1/generate', {method: 'POST'});
}
const proto = location.protocol === 'https:' ? 'wss' : 'ws';
const ws = new WebSocket(proto + '://' + location.host + '/ws');
ws.onmessage = () => load();
load();
</script>
</body>
</html>
`
