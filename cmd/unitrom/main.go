/*
Copyright © 2019 the unitrom authors.
This file is part of unitrom.

unitrom is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

unitrom is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with unitrom.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command unitrom corrects the output of unit operation reduced order
// models so that they conserve chemical elements.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/unitrom/romutil"
)

func main() {
	if err := romutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
