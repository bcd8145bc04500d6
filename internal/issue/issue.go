// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CratefileNotFoundId Id = iota + 1
	CratefileParseErrorId
	ManifestInvalidId
	ContainerEngineNotFoundId
	ImageBuildFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	cratefileNotFoundIssue = &Issue{
		id: CratefileNotFoundId,
		mdMsg: `
# No cratefile found!

We searched for a cratefile but couldn't find one in the expected location.

## Things you can try:
- Create a starter cratefile in your current directory:
~~~
$ botcrate init
~~~

- Or point botcrate at an existing recipe:
~~~
$ botcrate build path/to/cratefile.cue
~~~

## Example cratefile structure:
~~~cue
base:     "python:3.11-slim"
workdir:  "/app"
manifest: "requirements.txt"
install:  "pip install --no-cache-dir -r requirements.txt"
entrypoint: ["python", "main.py"]
~~~`,
	}

	cratefileParseErrorIssue = &Issue{
		id: CratefileParseErrorId,
		mdMsg: `
# Failed to parse cratefile!

Your cratefile contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A floating base tag ('latest' or no tag at all)
- An empty entrypoint vector

## Things you can try:
- Check the error message above for the specific field
- Validate the recipe without building:
~~~
$ botcrate validate
~~~

## Example of a valid recipe:
~~~cue
base:     "python:3.11-slim"
workdir:  "/app"
env: {PYTHONUNBUFFERED: "1"}
manifest: "requirements.txt"
install:  "pip install --no-cache-dir -r requirements.txt"
entrypoint: ["python", "main.py"]
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid dependency manifest!

The dependency manifest could not be parsed. Each non-comment line must be a
single package entry:

~~~
package-name
package-name==1.2.3
~~~

## Things you can try:
- Remove stray shell syntax or flags from the manifest
- Check for duplicated package names
- Make sure the file referenced by 'manifest:' in your cratefile is the
  dependency list, not a lock file in another format`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

botcrate builds and runs images through a container engine, but none is
available on this system.

## Supported container engines:
- **Podman** (recommended for rootless containers)
- **Docker**

## Things you can try:
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `
- Install Docker:
  - https://docs.docker.com/get-docker/

- Configure your preferred engine in the botcrate config:
~~~cue
engine: "podman"  // or "docker"
~~~`,
	}

	imageBuildFailedIssue = &Issue{
		id: ImageBuildFailedId,
		mdMsg: `
# Image build failed!

The container engine reported a build failure. No image was tagged: a failed
build never produces a usable artifact.

## Common causes:
- A manifest entry that cannot be resolved (nonexistent package or version)
- Network failure fetching the base image or packages
- A native dependency missing a system library in the base image

## Things you can try:
- Re-run with --verbose to see the full engine output
- Check that every manifest entry exists at the pinned version
- Try pulling the base image manually to rule out network issues`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the botcrate configuration file.

## Configuration file locations:
- Linux: ~/.config/botcrate/config.cue
- macOS: ~/Library/Application Support/botcrate/config.cue
- Windows: %APPDATA%\botcrate\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ botcrate config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
engine: "podman"

ui: {
  verbose: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		cratefileNotFoundIssue.Id():       cratefileNotFoundIssue,
		cratefileParseErrorIssue.Id():     cratefileParseErrorIssue,
		manifestInvalidIssue.Id():         manifestInvalidIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		imageBuildFailedIssue.Id():        imageBuildFailedIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
