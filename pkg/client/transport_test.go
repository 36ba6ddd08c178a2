package client_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nymi/nea-helpers/pkg/client"
	"github.com/nymi/nea-helpers/pkg/nea"
	"github.com/nymi/nea-helpers/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func accept(ln net.Listener) <-chan net.Conn {
	out := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(out)
			return
		}
		out <- conn
	}()
	return out
}

func TestTCPTransport_RoundTrip(t *testing.T) {
	ln := listen(t)
	accepted := accept(ln)

	tr, err := client.Dial(context.Background(), ln.Addr().String(), 0, time.Millisecond)
	require.NoError(t, err)
	defer tr.Close()

	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()

	require.NoError(t, tr.Send(context.Background(), []byte(`{"path":"info/get"}`)))

	line, err := bufio.NewReader(server).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "{\"path\":\"info/get\"}\n", line)

	_, err = server.Write([]byte("\n  \n{\"operation\":\"a/get\"}\r\n{\"operation\":\"b/get\"}\n"))
	require.NoError(t, err)

	first, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"operation":"a/get"}`, string(first))

	second, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"operation":"b/get"}`, string(second))
}

func TestTCPTransport_SendRejectsEmbeddedNewline(t *testing.T) {
	ln := listen(t)
	accept(ln)

	tr, err := client.Dial(context.Background(), ln.Addr().String(), 0, time.Millisecond)
	require.NoError(t, err)
	defer tr.Close()

	assert.Error(t, tr.Send(context.Background(), []byte("{}\n{}")))
}

func TestTCPTransport_ReceiveCancelled(t *testing.T) {
	ln := listen(t)
	accept(ln)

	tr, err := client.Dial(context.Background(), ln.Addr().String(), 0, time.Millisecond)
	require.NoError(t, err)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = tr.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTCPTransport_FrameTooLarge(t *testing.T) {
	ln := listen(t)
	accepted := accept(ln)

	tr, err := client.Dial(context.Background(), ln.Addr().String(), 0, time.Millisecond)
	require.NoError(t, err)
	defer tr.Close()

	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()
	go func() {
		_, _ = server.Write([]byte(strings.Repeat("x", client.MaxFrameSize+1) + "\n"))
	}()

	_, err = tr.Receive(context.Background())
	require.ErrorIs(t, err, client.ErrFrameTooLarge)
}

func TestTCPTransport_PeerClosed(t *testing.T) {
	ln := listen(t)
	accepted := accept(ln)

	tr, err := client.Dial(context.Background(), ln.Addr().String(), 0, time.Millisecond)
	require.NoError(t, err)
	defer tr.Close()

	server := <-accepted
	require.NotNil(t, server)
	require.NoError(t, server.Close())

	_, err = tr.Receive(context.Background())
	require.ErrorIs(t, err, net.ErrClosed)
}

func TestDial_Retries(t *testing.T) {
	ln := listen(t)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	start := time.Now()
	_, err := client.Dial(context.Background(), addr, 2, 20*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestDial_ContextCancelled(t *testing.T) {
	ln := listen(t)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.Dial(ctx, addr, 100, time.Second)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_OverTCP(t *testing.T) {
	ln := listen(t)
	accepted := accept(ln)

	tr, err := client.Dial(context.Background(), ln.Addr().String(), client.DefaultRetries, client.DefaultInterval)
	require.NoError(t, err)

	c, _ := startClient(t, tr)
	defer c.Close()

	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()
	go func() {
		r := bufio.NewScanner(server)
		for r.Scan() {
			var req protocol.Request
			if json.Unmarshal(r.Bytes(), &req) != nil {
				return
			}
			_, _ = fmt.Fprintf(server, "{\"operation\":\"buzz/run\",\"completed\":true,\"exchange\":%q}\n", req.Exchange)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()

	req, err := nea.Buzz("p1")
	require.NoError(t, err)
	res, err := c.Do(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, req.Exchange, res.Ack().Exchange)
	assert.True(t, res.Ack().Successful)
}
