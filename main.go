package main

import "github.com/8090Lambert/go-parsehelper/boot"

func main() {
	boot.Boot()
}
