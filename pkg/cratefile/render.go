// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RenderContainerfile renders the recipe into a canonical Containerfile.
//
// The instruction order is fixed: FROM, WORKDIR, ENV, COPY manifest,
// RUN install, COPY source, ENTRYPOINT. Copying the manifest and running
// the install step before the source copy keeps the dependency layers
// cacheable across source-only changes. Env keys are emitted in sorted
// order so identical recipes render byte-identical output.
func (c *Cratefile) RenderContainerfile() (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "FROM %s\n\n", c.Base)
	fmt.Fprintf(&sb, "WORKDIR %s\n", c.Workdir)

	if len(c.Env) > 0 {
		sb.WriteString("\n")
		keys := make([]string, 0, len(c.Env))
		for k := range c.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "ENV %s=%s\n", k, strconv.Quote(c.Env[k]))
		}
	}

	fmt.Fprintf(&sb, "\nCOPY %s ./\n", c.Manifest)
	fmt.Fprintf(&sb, "RUN %s\n", c.Install)
	fmt.Fprintf(&sb, "\nCOPY %s ./\n", sourceSpec(c.Source))

	argv, err := json.Marshal(c.Entrypoint)
	if err != nil {
		return "", fmt.Errorf("failed to encode entrypoint: %w", err)
	}
	fmt.Fprintf(&sb, "\nENTRYPOINT %s\n", argv)

	return sb.String(), nil
}

// sourceSpec normalizes the source directory for the COPY instruction:
// a trailing slash copies directory contents rather than the directory.
func sourceSpec(source string) string {
	if source == "." || source == "./" {
		return "."
	}
	return strings.TrimSuffix(source, "/") + "/"
}
