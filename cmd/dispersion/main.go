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

// Command dispersion is a command-line interface for the Gaussian
// plume and puff dispersion models.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/dispersion/dispersionutil"
)

func main() {
	if len(os.Args) == 1 { // With no arguments, start the web interface.
		dispersionutil.StartWebServer()
		return
	}
	if err := dispersionutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
