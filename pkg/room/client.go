package room

import (
	"cardroom-server/pkg/playable"
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer  *Dealer
	pitBoss *PitBoss

	userID string
	gameID string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, userID, gameID string) *Client {
	return &Client{
		send:   make(chan interface{}, 256),
		Close:  make(chan string),
		Conn:   conn,
		userID: userID,
		gameID: gameID,
	}
}

// Send send a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and game
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.userID, c.gameID)
}

// ReceivedMessage is called when the server receives a move from a connected client
func (c *Client) ReceivedMessage(ctx context.Context, move *playable.Move) {
	if c.pitBoss == nil {
		logrus.WithField("move", move.String()).Warn("received message, but client is not subscribed")
		return
	}

	if _, err := c.pitBoss.SubmitMove(ctx, c.gameID, c.userID, move); err != nil {
		c.Send(newErrorResponse(move.Context, err))
		return
	}

	c.Send(playable.OK(move.Context))
}
