// ProtoShade Core
// Copyright (c) 2026 The ProtoShade Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ProtoShade Core.
//
// ProtoShade Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ProtoShade Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ProtoShade Core.  If not, see <http://www.gnu.org/licenses/>.

// Package mocks provides testify mocks for external process execution.
package mocks

import (
	"context"

	"github.com/ProtoShade/protoshade-core/pkg/helpers/command"
	"github.com/stretchr/testify/mock"
)

// MockCommandExecutor is a testify mock of command.Executor.
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) Run(ctx context.Context, name string, args ...string) error {
	callArgs := m.Called(ctx, name, args)
	return callArgs.Error(0)
}

func (m *MockCommandExecutor) Output(
	ctx context.Context, name string, args ...string,
) ([]byte, error) {
	callArgs := m.Called(ctx, name, args)
	out, _ := callArgs.Get(0).([]byte)
	return out, callArgs.Error(1)
}

func (m *MockCommandExecutor) Script(
	ctx context.Context, opts command.ScriptOptions, name string, args ...string,
) ([]byte, error) {
	callArgs := m.Called(ctx, opts, name, args)
	out, _ := callArgs.Get(0).([]byte)
	return out, callArgs.Error(1)
}
