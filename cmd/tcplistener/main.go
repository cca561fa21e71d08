// Command tcplistener is a small debug utility for exercising
// internal/request.Parse standalone, off a raw TCP connection, without any
// router or pipeline attached: accept a connection, accumulate bytes until
// Parse reports a complete request (or a framing error), and print what it
// found.
package main

import (
	"fmt"
	"net"
	"os"
	"sort"
	"time"

	"wireserve/internal/request"
)

const port = ":42069"

func main() {
	tcp, err := net.Listen("tcp", port)
	if err != nil {
		fmt.Println("ERROR: failed to open.", err)
		os.Exit(1)
	}
	defer tcp.Close()

	fmt.Println("Listening for TCP traffic on", port)
	for {
		conn, err := tcp.Accept()
		if err != nil {
			fmt.Println("ERROR: failed to accept.", err)
			continue
		}
		go handleConn(conn)
	}
}

func handleConn(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		n, readErr := conn.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
			result := request.Parse(buf)

			switch result.Outcome {
			case request.Incomplete:
				if readErr != nil {
					return
				}
				continue
			case request.Error:
				fmt.Printf("ERROR: %d %s\n", result.Status, result.Message)
				return
			case request.Parsed:
				printRequest(result.Req)
				fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 2\r\nConnection: close\r\n\r\nOK")
				return
			}
		}
		if readErr != nil {
			return
		}
	}
}

func printRequest(req *request.Request) {
	fmt.Printf("Request line:\n- Method: %s\n- Target: %s\n- Version: %s\n",
		req.RequestLine.Method, req.RequestLine.RequestTarget, req.RequestLine.HTTPVersion)

	fmt.Println("Headers:")
	if len(req.Headers) == 0 {
		fmt.Println("- (none)")
	} else {
		keys := make([]string, 0, len(req.Headers))
		for k := range req.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("- %s: %s\n", k, req.Headers.Get(k))
		}
	}

	fmt.Println("Body:")
	if len(req.Body) == 0 {
		fmt.Println("- (none)")
	} else {
		fmt.Println(string(req.Body))
	}
}
