/*
Copyright © 2016 the Dispersion authors.
This file is part of Dispersion.

Dispersion is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Dispersion is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Dispersion.  If not, see <http://www.gnu.org/licenses/>.
*/

package dispersionutil

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/ctessum/gobra"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// WebAddress is the address the web interface is served on.
const WebAddress = "localhost:7272"

// configHandler reads the configuration file given in the "config" form
// value and responds with the resulting configuration as JSON.
func configHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	Root.PersistentFlags().Set("config", r.Form.Get("config"))
	if err := setConfig(); err != nil {
		http.Error(w, err.Error(), http.StatusNoContent)
		return
	}
	config := make(map[string]interface{})
	for _, option := range options {
		config[option.name] = Cfg.Get(option.name)
	}
	if err := json.NewEncoder(w).Encode(config); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

const webTemplate = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Dispersion</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #bbb; margin: .3em; color: #333; padding-left: 5px; font-size: 75%; }
		div[id^="gobra-"] input { font-family: monospace; margin-left: .2em; width: 50%; }
		.error { border: 1px solid #c35; }
		.loaded { border: 1px solid #3c5; }
	</style>
</head>
<body>
<div class="container">
	<h1>Dispersion</h1>
	<p>Choose a configuration file or fill in the fields below, then run a command.</p>
	<div>
		{{.}}
	</div>
</div>
<script>
let flags = [...document.querySelectorAll('[data-name]')];
let configInput = flags.filter(x => x.dataset.name == "config")[0].children[0];
configInput.addEventListener("input", e => {
	fetch("/setConfig?config=" + encodeURIComponent(configInput.value))
		.then(res => {
			if (res.status !== 200) {
				configInput.classList.add("error");
				return;
			}
			configInput.classList.remove("error");
			res.json().then(data => {
				for (let f of flags) {
					if (f.dataset.name in data) {
						let input = f.children[0];
						input.value = JSON.stringify(data[f.dataset.name]).replace(/^"+|"+$/g, '');
						input.classList.add("loaded");
					}
				}
			});
		})
		.catch(err => console.log("setConfig:", err));
});
</script>
</body>
</html>`

// StartWebServer starts a web interface for the commands and opens it
// in a browser.
func StartWebServer() {
	if err := setConfig(); err != nil {
		logrus.WithError(err).Warn("dispersion: reading configuration")
	}

	http.HandleFunc("/setConfig", configHandler)

	for _, cmd := range []*cobra.Command{Root, versionCmd, plumeCmd, puffCmd,
		dynamicCmd, plotCmd, bombCmd, presetsCmd} {
		cmd.SilenceUsage = true // Usage messages clutter the web page.
	}

	output := template.Must(template.New("").Parse(webTemplate))
	server := gobra.Server{Root: Root, ServerAddress: WebAddress, AllowCORS: false, HTML: output}
	logrus.WithField("address", WebAddress).Info("dispersion: starting web server")
	if err := open.Run("http://" + WebAddress); err != nil {
		fmt.Printf("Please visit http://%s\n", WebAddress)
	}
	server.Start()
}
