// Package templates holds the HTML components rendered by the web server.
package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Symbology is one option of the barcode type selector.
type Symbology struct {
	Value string
	Label string
}

// IndexParams configures the upload page.
type IndexParams struct {
	Symbologies []Symbology
	MaxFileMB   int64
}

// Index renders the upload page. The page posts the selected file to
// /upload, shows the returned images and offers them for download through
// /download-json.
func Index(p IndexParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(indexHead)

		b.WriteString(`<form id="upload-form"><label>Barcode type <select name="barcodeType" id="barcode-type">`)
		for _, s := range p.Symbologies {
			b.WriteString(`<option value="`)
			b.WriteString(templ.EscapeString(s.Value))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(s.Label))
			b.WriteString(`</option>`)
		}
		b.WriteString(`</select></label> `)
		b.WriteString(`<input type="file" name="uploadedFile" accept=".xlsx,.csv" required> `)
		b.WriteString(`<button type="submit">Generate</button> `)
		b.WriteString(`<button type="button" id="download" disabled>Download JSON</button>`)
		b.WriteString(`<p class="hint">First sheet only. Columns: material code, material name, barcode. Max `)
		b.WriteString(strconv.FormatInt(p.MaxFileMB, 10))
		b.WriteString(` MB.</p></form>`)

		b.WriteString(indexTail)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorAlert renders an error fragment for HTMX requests.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert"><strong>`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</strong>`)
		if action != "" {
			b.WriteString(`<p>`)
			b.WriteString(templ.EscapeString(action))
			b.WriteString(`</p>`)
		}
		if code != "" {
			b.WriteString(`<small>Code: `)
			b.WriteString(templ.EscapeString(code))
			b.WriteString(`</small>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

const indexHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Barcode Generator</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
.hint { color: #666; font-size: .9rem; }
.alert-error { color: #a40000; margin: 1rem 0; }
#results { display: flex; flex-wrap: wrap; gap: 1rem; margin-top: 1rem; }
figure { margin: 0; text-align: center; }
figure img { max-width: 320px; }
</style>
</head>
<body>
<h1>Barcode Generator</h1>
`

const indexTail = `
<div id="message"></div>
<div id="results"></div>
<script>
(function () {
  var form = document.getElementById("upload-form");
  var download = document.getElementById("download");
  var message = document.getElementById("message");
  var results = document.getElementById("results");
  var barcodes = [];

  function showError(text) {
    message.className = "alert alert-error";
    message.textContent = text;
  }

  form.addEventListener("submit", function (ev) {
    ev.preventDefault();
    message.textContent = "";
    message.className = "";
    results.textContent = "";
    download.disabled = true;

    var type = document.getElementById("barcode-type").value;
    fetch("/upload?barcodeType=" + encodeURIComponent(type), {
      method: "POST",
      headers: { "Accept": "application/json" },
      body: new FormData(form)
    }).then(function (res) {
      return res.json().then(function (body) { return { ok: res.ok, body: body }; });
    }).then(function (r) {
      if (!r.ok) {
        showError(r.body.message || "Error processing the file.");
        return;
      }
      barcodes = r.body;
      barcodes.forEach(function (b) {
        var fig = document.createElement("figure");
        var img = document.createElement("img");
        img.src = "data:image/png;base64," + b.png;
        img.alt = b.barcode;
        var cap = document.createElement("figcaption");
        cap.textContent = b.materialCode + " " + b.materialName;
        fig.appendChild(img);
        fig.appendChild(cap);
        results.appendChild(fig);
      });
      download.disabled = barcodes.length === 0;
    }).catch(function () {
      showError("Error processing the file.");
    });
  });

  download.addEventListener("click", function () {
    fetch("/download-json", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ barcodes: barcodes })
    }).then(function (res) {
      if (!res.ok) { throw new Error("download failed"); }
      return res.blob();
    }).then(function (blob) {
      var a = document.createElement("a");
      a.href = URL.createObjectURL(blob);
      a.download = "barcodes.json";
      a.click();
      URL.revokeObjectURL(a.href);
    }).catch(function () {
      showError("No barcodes data provided for download.");
    });
  });
})();
</script>
</body>
</html>
`
