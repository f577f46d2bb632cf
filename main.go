package main

import "unitycheck/cmd"

func main() {
	cmd.Execute()
}
