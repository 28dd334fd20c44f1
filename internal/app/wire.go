package app

import (
	"gorm.io/gorm"

	httpS "github.com/nbeaumont/exquisite-backend/internal/http"
	httpH "github.com/nbeaumont/exquisite-backend/internal/http/handlers"
	"github.com/nbeaumont/exquisite-backend/internal/pkg/logger"
	"github.com/nbeaumont/exquisite-backend/internal/repos"
	"github.com/nbeaumont/exquisite-backend/internal/services"
)

type Repos struct {
	Poem     repos.PoemRepo
	PoemLine repos.PoemLineRepo
}

type Services struct {
	Poem services.PoemService
}

type Handlers struct {
	Health *httpH.HealthHandler
	Poem   *httpH.PoemHandler
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Poem:     repos.NewPoemRepo(db, log),
		PoemLine: repos.NewPoemLineRepo(db, log),
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Poem: services.NewPoemService(db, log, r.Poem, r.PoemLine, cfg.HintWordCount),
	}
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Poem:   httpH.NewPoemHandler(log, s.Poem),
	}
}

func wireServer(log *logger.Logger, handlers Handlers) *httpS.Server {
	return httpS.NewServer(httpS.RouterConfig{
		Log:           log,
		HealthHandler: handlers.Health,
		PoemHandler:   handlers.Poem,
	})
}
