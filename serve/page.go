package serve

// indexPage takes canvas width, canvas height, pole distance and distortion.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<title>Plasmoire</title>
<style>
body { font-family: sans-serif; margin: 1em; }
#view { cursor: grab; border: 1px solid #888; }
#view.dragging { cursor: grabbing; }
.controls { margin-top: 0.5em; }
.controls label { margin-right: 1.5em; }
#status { color: #a00; }
</style>
</head>
<body>
<canvas id="view" width="%d" height="%d"></canvas>
<div class="controls">
<label>Pole distance: <input id="pole" type="number" min="10" max="1000" step="10" value="%g"></label>
<label>Distortion: <input id="distortion" type="number" min="0.7" max="2.5" step="0.1" value="%g"></label>
<span id="status"></span>
</div>
<script>
const canvas = document.getElementById("view");
const ctx = canvas.getContext("2d");
const status = document.getElementById("status");

const proto = location.protocol === "https:" ? "wss" : "ws";
const ws = new WebSocket(proto + "://" + location.host + "/ws");
ws.binaryType = "blob";

ws.onmessage = (ev) => {
	if (typeof ev.data === "string") {
		status.textContent = JSON.parse(ev.data).error;
		return;
	}
	status.textContent = "";
	createImageBitmap(ev.data).then((bm) => ctx.drawImage(bm, 0, 0));
};

let dragging = false;
canvas.addEventListener("mousedown", () => {
	dragging = true;
	canvas.classList.add("dragging");
});
window.addEventListener("mouseup", () => {
	dragging = false;
	canvas.classList.remove("dragging");
});
canvas.addEventListener("mousemove", (ev) => {
	if (!dragging || ws.readyState !== WebSocket.OPEN) return;
	ws.send(JSON.stringify({op: "pan", dx: ev.movementX, dy: ev.movementY}));
});

function sendParams() {
	ws.send(JSON.stringify({
		op: "params",
		pole: Number(document.getElementById("pole").value),
		distortion: Number(document.getElementById("distortion").value),
	}));
}
document.getElementById("pole").addEventListener("change", sendParams);
document.getElementById("distortion").addEventListener("change", sendParams);
</script>
</body>
</html>
`
