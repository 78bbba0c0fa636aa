package transport_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/transport"
	"github.com/gocircum/tunnelcore/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLoggingMiddlewareReportsEachDial(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	base := mocks.NewMockDialer(ctrl)
	link := mocks.NewMockLink(ctrl)

	ep := endpoint.New("127.0.0.1", endpoint.UDP, 1194)
	refused := errors.New("connection refused")

	gomock.InOrder(
		logger.EXPECT().Debug("Dialing link", "endpoint", ep.Description()),
		base.EXPECT().DialLink(gomock.Any(), ep).Return(link, nil),
		link.EXPECT().IsReliable().Return(false),
		logger.EXPECT().Info("Link established", "endpoint", ep.Description(), "reliable", false),

		logger.EXPECT().Debug("Dialing link", "endpoint", ep.Description()),
		base.EXPECT().DialLink(gomock.Any(), ep).Return(nil, refused),
		logger.EXPECT().Warn("Link dial failed", "endpoint", ep.Description(), "error", refused),
	)

	dialer := transport.LoggingMiddleware(logger)(base)

	got, err := dialer.DialLink(context.Background(), ep)
	require.NoError(t, err)
	assert.Same(t, link, got)

	_, err = dialer.DialLink(context.Background(), ep)
	assert.ErrorIs(t, err, refused)
}
