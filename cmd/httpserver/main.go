// Command httpserver is the minimal demo from the original teacher repo,
// rewired onto this project's own router and response builder instead of
// a single catch-all Handler: three hardcoded routes illustrating a
// success, a client error, and a server error response.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"wireserve/internal/request"
	"wireserve/internal/response"
	"wireserve/internal/router"
	"wireserve/internal/server"
)

const addr = ":42069"

func main() {
	rt := router.New()

	rt.Add("GET", "/yourproblem", func(req *request.Request, res *response.Response) {
		res.Status(400).HTML(`
<html>
  <head><title>400 Bad Request</title></head>
  <body>
    <h1>Bad Request</h1>
    <p>Your request honestly kinda sucked.</p>
  </body>
</html>`)
	})

	rt.Add("GET", "/myproblem", func(req *request.Request, res *response.Response) {
		res.Status(500).HTML(`
<html>
  <head><title>500 Internal Server Error</title></head>
  <body>
    <h1>Internal Server Error</h1>
    <p>Okay, you know what? This one is on me.</p>
  </body>
</html>`)
	})

	rt.Add("GET", "/", func(req *request.Request, res *response.Response) {
		res.Status(200).HTML(`
<html>
  <head><title>200 OK</title></head>
  <body>
    <h1>Success!</h1>
    <p>Your request was an absolute banger.</p>
  </body>
</html>`)
	})

	srv, err := server.Serve(server.Config{Addr: addr, Router: rt})
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
	defer srv.Close()
	log.Println("Server started on", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Server gracefully stopped")
}
