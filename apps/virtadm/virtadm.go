package main

import (
	"github.com/virtadm/virtadm/apps/virtadm/cmd"
)

func main() {
	cmd.Execute()
}
