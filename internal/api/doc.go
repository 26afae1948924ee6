// Package api provides the HTTP REST API and WebSocket change feed for the
// todo service.
//
// Routes:
//
//	GET    /health      liveness probe
//	GET    /todos       list every todo with its count
//	POST   /todos       create a todo
//	GET    /todos/{id}  fetch one todo
//	PUT    /todos/{id}  update title and/or completed
//	DELETE /todos/{id}  delete a todo
//	GET    /ws          WebSocket feed of todo.created|updated|deleted events
//
// Every /todos response uses the {success, data, error, count, message}
// envelope. Unknown paths and unsupported methods both answer 404.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
