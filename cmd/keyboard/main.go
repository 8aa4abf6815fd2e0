// Command keyboard runs, serves and inspects chat menus described in YAML.
package main

func main() {
	Execute()
}
