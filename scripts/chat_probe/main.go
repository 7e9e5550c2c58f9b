package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
)

// chat_probe is a minimal interactive client for poking at a running
// server: it pipes stdin to the socket and prints every server line.
func main() {
	if err := run(); err != nil {
		log.Printf("chat_probe: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "localhost:12345", "server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fmt.Println(scanner.Text())
		}
		os.Exit(0)
	}()

	if _, err := io.Copy(conn, os.Stdin); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
