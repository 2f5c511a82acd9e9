package svg

import (
	"html/template"
	"io"
	"time"
)

// PageOptions configures the HTML host page.
type PageOptions struct {
	Title string
	// API is the base path of the session API, for example "/api".
	API string
	// Frames is the number of frames fetched per toggle animation.
	Frames int
	// Duration is the toggle animation length.
	Duration time.Duration
	// Watch subscribes the page to server reload events.
	Watch bool
}

// Page writes the HTML page that hosts an interactive tree served over the
// session API.
func Page(w io.Writer, opts PageOptions) error {
	if opts.Title == "" {
		opts.Title = "canopy"
	}
	if opts.API == "" {
		opts.API = "/api"
	}
	if opts.Frames <= 0 {
		opts.Frames = 12
	}
	if opts.Duration <= 0 {
		opts.Duration = 250 * time.Millisecond
	}
	return pageTmpl.Execute(w, struct {
		PageOptions
		Millis int64
	}{opts, opts.Duration.Milliseconds()})
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  html, body { margin: 0; height: 100%; font: 12px sans-serif; }
  #tree { width: 100vw; height: 100vh; overflow: hidden; }
  #popup { display: none; position: fixed; top: 20%; left: 50%; transform: translateX(-50%);
    background: #fff; border: 1px solid #333; border-radius: 6px; padding: 12px 16px; min-width: 220px; }
  #popup h3 { margin: 0 0 8px; }
  #reset { position: fixed; top: 12px; right: 12px; }
  #toggle-tree { position: fixed; top: 12px; left: 12px; }
  #tree.hidden, #tree.hidden ~ #reset { display: none; }
</style>
</head>
<body>
<button id="toggle-tree">Hide tree</button>
<div id="tree"></div>
<button id="reset">Reset view</button>
<div id="popup"><h3 id="popup-name"></h3><p id="popup-metadata"></p><button id="popup-close">Close</button></div>
<script>
(function () {
  var api = {{.API}}, frames = {{.Frames}}, millis = {{.Millis}};
  var host = document.getElementById('tree'), session = null;

  function call(method, path, body) {
    return fetch(api + path, {
      method: method,
      headers: body ? {'Content-Type': 'application/json'} : {},
      body: body ? JSON.stringify(body) : undefined
    }).then(function (r) {
      if (!r.ok) return r.json().then(function (e) { throw new Error(e.error || r.statusText); });
      var ct = r.headers.get('Content-Type') || '';
      return ct.indexOf('json') >= 0 ? r.json() : r.text();
    });
  }

  function viewport() { return host.querySelector('#viewport'); }

  function show(svg) {
    host.innerHTML = svg;
    bind();
  }

  function load() {
    return call('GET', '/sessions/' + session + '/svg').then(show);
  }

  var timer = null;

  function play(list) {
    clearTimeout(timer);
    var i = 0, step = millis / Math.max(1, list.length);
    function next() {
      timer = null;
      if (i >= list.length) return;
      show(list[i++]);
      timer = setTimeout(next, step);
    }
    next();
  }

  function bind() {
    host.querySelectorAll('.node').forEach(function (el) {
      el.addEventListener('click', function () {
        call('POST', '/sessions/' + session + '/nodes/' + el.dataset.id + '/toggle')
          .then(function () { return call('GET', '/sessions/' + session + '/frames?n=' + frames); })
          .then(function (r) { play(r.frames); })
          .catch(function () {});
      });
    });
    host.querySelectorAll('.info').forEach(function (el) {
      el.addEventListener('click', function (ev) {
        ev.stopPropagation();
        call('GET', '/sessions/' + session + '/nodes/' + el.dataset.id).then(function (n) {
          document.getElementById('popup-name').textContent = n.name;
          document.getElementById('popup-metadata').textContent = n.metadata;
          document.getElementById('popup').style.display = 'block';
        });
      });
    });
    var svg = host.querySelector('svg');
    if (!svg) return;
    svg.addEventListener('dblclick', function (ev) { ev.preventDefault(); });
    svg.addEventListener('wheel', function (ev) {
      ev.preventDefault();
      var factor = Math.pow(2, -ev.deltaY * 0.002);
      view({zoom: factor, x: ev.offsetX, y: ev.offsetY});
    }, {passive: false});
    var drag = null;
    svg.addEventListener('mousedown', function (ev) { drag = {x: ev.clientX, y: ev.clientY}; });
    window.addEventListener('mouseup', function () { drag = null; });
    window.addEventListener('mousemove', function (ev) {
      if (!drag) return;
      var dx = ev.clientX - drag.x, dy = ev.clientY - drag.y;
      drag = {x: ev.clientX, y: ev.clientY};
      view({dx: dx, dy: dy});
    });
  }

  function view(body) {
    call('POST', '/sessions/' + session + '/viewport', body).then(function (t) {
      var g = viewport();
      if (g) g.setAttribute('transform', t.transform);
    });
  }

  document.getElementById('popup-close').addEventListener('click', function () {
    document.getElementById('popup').style.display = 'none';
  });
  document.getElementById('toggle-tree').addEventListener('click', function (ev) {
    var hidden = host.classList.toggle('hidden');
    ev.target.textContent = hidden ? 'Show tree' : 'Hide tree';
  });
  document.getElementById('reset').addEventListener('click', function () {
    call('POST', '/sessions/' + session + '/reset?n=' + frames).then(function (r) {
      var i = 0, step = r.duration / Math.max(1, r.transforms.length);
      function next() {
        var g = viewport();
        if (!g || i >= r.transforms.length) return;
        g.setAttribute('transform', r.transforms[i++]);
        setTimeout(next, step);
      }
      next();
    });
  });

  call('POST', '/sessions', {width: host.clientWidth, height: host.clientHeight}).then(function (r) {
    session = r.id;
    return load();
  });
{{if .Watch}}
  new EventSource(api + '/events').addEventListener('reload', function () { location.reload(); });
{{end}}
})();
</script>
</body>
</html>
`))
