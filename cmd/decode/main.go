package main

import (
	"fmt"
	"os"

	"plates/internal/code"
)

func main() {
	if len(os.Args) <= 2 {
		fmt.Println("Usage: decode <pattern> <code> [-raw]")
		return
	}

	p, err := code.ParsePattern(os.Args[1])
	if err != nil {
		fmt.Println(err)
		return
	}
	s := p.Scheme()

	raw := len(os.Args) > 3 && os.Args[3] == "-raw"

	fields, err := s.Split(os.Args[2])
	if err == nil {
		var n uint64
		if raw {
			n, err = s.Decode(fields)
		} else {
			n, err = s.Reveal(fields)
		}
		if err == nil {
			fmt.Println(n)
			return
		}
	}

	fmt.Println("Decode error:")
	fmt.Println(err)
}
