package main

import (
	"fmt"
	"os"
	"strconv"

	"plates/internal/code"
)

func main() {
	if len(os.Args) <= 2 {
		fmt.Println("Usage: encode <pattern> <integer> [-raw]")
		return
	}

	p, err := code.ParsePattern(os.Args[1])
	if err != nil {
		fmt.Println(err)
		return
	}
	s := p.Scheme()

	n, err := strconv.ParseUint(os.Args[2], 10, 64)
	if err != nil {
		fmt.Println("Integer must be a positive whole number.")
		return
	}

	raw := len(os.Args) > 3 && os.Args[3] == "-raw"

	var fields []string
	if raw {
		fields, err = s.Encode(n)
	} else {
		fields, err = s.Obfuscate(n)
	}
	if err != nil {
		fmt.Println("Encode error:")
		fmt.Println(err)
		return
	}
	fmt.Println(code.Join(fields))
}
