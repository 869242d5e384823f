// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"github.com/wristband/go-service-auth/pkg/errors"
	"github.com/wristband/go-service-auth/pkg/session"
	"github.com/wristband/go-service-auth/pkg/shim"
)

// resolve unwraps a *Params or a ParamsCarrier. A missing bag is a wiring
// bug, not a client error, so it surfaces as a 500.
func resolve(pc any) (*Params, error) {
	switch v := pc.(type) {
	case *Params:
		if v != nil {
			return v, nil
		}
	case ParamsCarrier:
		if p := v.AuthParams(); p != nil {
			return p, nil
		}
	}
	return nil, errors.NewInternal("request params not found. Did you configure the wristband bridge middleware?")
}

// NativeFromParams returns the platform request/response pair.
func NativeFromParams(pc any) (*Native, error) {
	p, err := resolve(pc)
	if err != nil {
		return nil, err
	}
	if p.Native == nil {
		return nil, errors.NewInternal("native context not found on params. Did you configure the wristband bridge middleware?")
	}
	return p.Native, nil
}

// SessionFromParams returns the request's session.
func SessionFromParams(pc any) (*session.Session, error) {
	p, err := resolve(pc)
	if err != nil {
		return nil, err
	}
	if p.Session == nil {
		return nil, errors.NewInternal("wristband session not found on params")
	}
	return p.Session, nil
}

// AuthClientFromParams returns the shared auth client.
func AuthClientFromParams(pc any) (AuthClient, error) {
	p, err := resolve(pc)
	if err != nil {
		return nil, err
	}
	if p.Client == nil {
		return nil, errors.NewInternal("wristband auth client not found on params")
	}
	return p.Client, nil
}

// ShimFromParams returns the portable request/response view.
func ShimFromParams(pc any) (*shim.Context, error) {
	p, err := resolve(pc)
	if err != nil {
		return nil, err
	}
	if p.Shim == nil {
		return nil, errors.NewInternal("request shim not found on params. Did you configure the wristband bridge middleware?")
	}
	return p.Shim, nil
}
