//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"onboarding/internal/registration/store/storetest"
	"onboarding/pkg/testutil/containers"
)

func TestRedisStoreContractAgainstServer(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	suite.Run(t, &storetest.ContractSuite{
		NewStore: func() storetest.Store {
			require.NoError(t, rc.FlushAll(context.Background()))
			return New(rc.Client)
		},
	})
}
