package main

import (
	"log"
	"os"
)

const usage = "usage: worker <refresh | simulate [hour] | dot <facility.yaml> [out.dot] | validate <facility.yaml>>"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	var err error
	switch os.Args[1] {
	case "refresh":
		err = runRefresh()
	case "simulate":
		err = runSimulate(os.Args[2:])
	case "dot":
		err = runDOT(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	default:
		log.Fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
