// SPDX-License-Identifier: MPL-2.0

package main

import cmd "botcrate/cmd/botcrate"

func main() {
	cmd.Execute()
}
