package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/polarviz/icesheet/internal/controllers/restserver"
	"github.com/polarviz/icesheet/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		logger:         logger,
		controllers:    make([]Controller, 0),
	}

	controllerConfigs, err := configProvider.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("error loading controller configurations: %v", err)
	}

	// Create controllers based on configuration
	for _, con := range controllerConfigs {
		controller, err := cm.createController(con)
		if err != nil {
			return nil, fmt.Errorf("error creating controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	if len(cm.controllers) == 0 {
		return nil, fmt.Errorf("no controllers configured - add a rest controller to the configuration")
	}

	return cm, nil
}

type controllerManager struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	controllers    []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// createController creates a controller based on the controller configuration
func (cm *controllerManager) createController(cc config.ControllerData) (Controller, error) {
	switch cc.Type {
	case "restserver", "rest":
		if cc.RESTServer == nil {
			return nil, fmt.Errorf("rest controller configured without a rest section")
		}
		return restserver.NewController(cm.ctx, cm.wg, cm.configProvider, *cc.RESTServer, cm.logger)
	default:
		return nil, fmt.Errorf("unknown controller type: %s", cc.Type)
	}
}
