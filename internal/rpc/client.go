package rpc

import (
	"context"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"babylog/internal/middleware"
)

// Client calls TrackerService on behalf of one user.
type Client struct {
	cc     grpc.ClientConnInterface
	userID int64
}

func NewClient(cc grpc.ClientConnInterface, userID int64) *Client {
	return &Client{cc: cc, userID: userID}
}

func (c *Client) Call(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	ctx = metadata.AppendToOutgoingContext(ctx, middleware.UserIDHeader, strconv.FormatInt(c.userID, 10))
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetTimezone(ctx context.Context, name string) (*structpb.Struct, error) {
	return c.Call(ctx, MethodSetTimezone, map[string]any{"timezone": name})
}

func (c *Client) StartSleep(ctx context.Context) (*structpb.Struct, error) {
	return c.Call(ctx, MethodStartSleep, nil)
}

func (c *Client) EndSleep(ctx context.Context) (*structpb.Struct, error) {
	return c.Call(ctx, MethodEndSleep, nil)
}

func (c *Client) RecordFeeding(ctx context.Context, amount string) (*structpb.Struct, error) {
	return c.Call(ctx, MethodRecordFeeding, map[string]any{"amount": amount})
}

// DailyReport reports on date, or on the local today when date is empty.
func (c *Client) DailyReport(ctx context.Context, date string) (*structpb.Struct, error) {
	in := map[string]any{}
	if date != "" {
		in["date"] = date
	}
	return c.Call(ctx, MethodDailyReport, in)
}

func (c *Client) History(ctx context.Context, days int) (*structpb.Struct, error) {
	return c.Call(ctx, MethodHistory, map[string]any{"days": days})
}

func (c *Client) Status(ctx context.Context) (*structpb.Struct, error) {
	return c.Call(ctx, MethodStatus, nil)
}
