package board

import (
	"github.com/smallbiznis/trackiy/internal/board/repository"
	"github.com/smallbiznis/trackiy/internal/board/service"
	"go.uber.org/fx"
)

var Module = fx.Module("board.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
