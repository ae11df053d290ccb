package apispec_test

import (
	"context"

	"github.com/goliatone/go-formclient/pkg/transport"
)

type nopCaller struct{}

func (nopCaller) Do(context.Context, transport.Request, any) error { return nil }
