// Command taskboard manages Kanban projects, boards, ordered columns and
// ordered tasks in a local SQLite database, and serves them over HTTP.
package main

import "github.com/mesh-intelligence/taskboard/internal/cli"

func main() {
	cli.Execute()
}
