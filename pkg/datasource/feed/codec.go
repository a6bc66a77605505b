package feed

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/peter-kozarec/acs/pkg/acs"
)

func Encode(x float64) ([]byte, error) {
	data, err := proto.Marshal(wrapperspb.Double(x))
	if err != nil {
		return nil, fmt.Errorf("unable to marshal sample: %w", err)
	}
	return data, nil
}

func decode(position int, data []byte) (float64, error) {
	var v wrapperspb.DoubleValue
	if err := proto.Unmarshal(data, &v); err != nil {
		return 0, malformed(position, hex.EncodeToString(data), err)
	}
	return v.GetValue(), nil
}

// Publish sends every sample as its own frame and finishes with a normal closure.
func Publish(conn *websocket.Conn, data []float64, binary bool) error {
	for i, x := range data {
		var err error
		if binary {
			var frame []byte
			if frame, err = Encode(x); err == nil {
				err = conn.WriteMessage(websocket.BinaryMessage, frame)
			}
		} else {
			err = conn.WriteMessage(websocket.TextMessage, []byte(strconv.FormatFloat(x, 'g', -1, 64)))
		}
		if err != nil {
			return fmt.Errorf("unable to publish sample %d: %w", i+1, err)
		}
	}

	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "end of stream")
	if err := conn.WriteMessage(websocket.CloseMessage, closing); err != nil {
		return fmt.Errorf("unable to close feed: %w", err)
	}
	return nil
}

func malformed(position int, input string, err error) error {
	return &acs.MalformedInputError{Position: position, Input: input, Err: err}
}

func eof(messages int) error {
	return fmt.Errorf("feed closed after %d messages: %w", messages, acs.ErrEof)
}
