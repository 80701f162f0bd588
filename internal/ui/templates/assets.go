package templates

const pageStyle = `
body { margin: 0; font-family: system-ui, sans-serif; background: #f6f7f9; color: #1f2933; }
header { padding: 1rem 1.5rem; background: #fff; border-bottom: 1px solid #e4e7eb; }
header h1 { margin: 0; font-size: 1.5rem; }
.layout { display: flex; gap: 1rem; padding: 1rem; }
.filters { flex: 0 0 240px; display: flex; flex-direction: column; gap: .75rem; }
.filters label { display: flex; flex-direction: column; font-size: .85rem; gap: .25rem; }
.filters select { min-height: 6rem; }
main { flex: 1; min-width: 0; }
.kpis { display: flex; gap: 1rem; margin-bottom: 1rem; }
.kpi { background: #fff; border-radius: 6px; padding: .75rem 1rem; flex: 1; }
.kpi-label { display: block; font-size: .75rem; color: #616e7c; }
.grid { display: grid; grid-template-columns: repeat(2, minmax(0, 1fr)); gap: 1rem; }
.panel { background: #fff; border-radius: 6px; padding: .75rem; }
.panel[data-wide] { grid-column: span 2; }
.panel h3 { margin: 0 0 .5rem; font-size: 1rem; }
.chart { min-height: 360px; }
.downloads a, .download { font-size: .8rem; margin-right: .5rem; }
`

// drawDashboard maps each summary onto a Plotly trace using the column
// bindings carried in the payload.
const pageScript = `
function filterQuery(start, end, regions, states, cities) {
  const q = new URLSearchParams();
  if (start) q.set("start", start);
  if (end) q.set("end", end);
  (regions || []).forEach(v => q.append("region", v));
  (states || []).forEach(v => q.append("state", v));
  (cities || []).forEach(v => q.append("city", v));
  return q.toString();
}

function column(s, name) {
  const i = s.columns.indexOf(name);
  return i < 0 ? [] : s.rows.map(r => r[i]);
}

function flattenTree(node, parent, out) {
  const id = parent ? parent + "/" + node.name : node.name;
  out.ids.push(id);
  out.labels.push(node.name);
  out.parents.push(parent);
  out.values.push(node.value);
  (node.children || []).forEach(c => flattenTree(c, id, out));
  return out;
}

function traces(s, d) {
  const b = s.bindings || {};
  switch (s.chart) {
  case "bar":
  case "grouped_bar":
    return (b.y || []).map(y => ({ type: "bar", name: y, x: column(s, b.x), y: column(s, y),
      text: b.text ? column(s, b.text).map(v => v == null ? "" : v.toFixed(2)) : undefined }));
  case "line":
    return (b.y || []).map(y => ({ type: "scatter", mode: "lines+markers", name: y, x: column(s, b.x), y: column(s, y) }));
  case "pie":
    return [{ type: "pie", hole: 0.5, labels: column(s, b.names), values: column(s, b.values), textinfo: "label+percent" }];
  case "treemap":
    if (!d.tree) return [];
    return [Object.assign({ type: "treemap", branchvalues: "total" }, flattenTree(d.tree, "", { ids: [], labels: [], parents: [], values: [] }))];
  case "scatter":
    return [{ type: "scatter", mode: "markers", x: column(s, b.x), y: column(s, b.y[0]),
      marker: { size: column(s, b.size).map(q => 4 + q * 1.5) } }];
  case "choropleth":
    const rows = s.rows.filter(r => r[s.columns.indexOf(b.location)] != null);
    return [{ type: "choropleth", locationmode: "USA-states",
      locations: rows.map(r => r[s.columns.indexOf(b.location)]),
      z: rows.map(r => r[s.columns.indexOf(b.color)]),
      text: rows.map(r => r[0]), colorscale: "Blues" }];
  case "table":
    return [{ type: "table", header: { values: s.columns },
      cells: { values: s.columns.map(c => column(s, c).map(v => v == null ? "" : v)) } }];
  }
  return [];
}

function drawDashboard(d) {
  if (!d || !window.Plotly) return;
  d.summaries.forEach(s => {
    const el = document.getElementById("chart-" + s.name);
    if (!el) return;
    const layout = { margin: { t: 10, r: 10, b: 40, l: 50 }, autosize: true };
    if (s.chart === "grouped_bar") layout.barmode = "group";
    if (s.chart === "choropleth") layout.geo = { scope: "usa" };
    Plotly.react(el, traces(s, d), layout, { responsive: true, displaylogo: false });
  });
}
`
