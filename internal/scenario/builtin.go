package scenario

import (
	"fmt"
	"sort"

	"github.com/contractnet/evolver/internal/network"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/region"
)

// Builtin scenario names.
const (
	MotorDegradationName = "motor-degradation"
	MotorUpgradeName     = "motor-upgrade"
	NavDriftName         = "nav-drift-increase"
)

var builtins = map[string]func() (*Scenario, error){
	MotorDegradationName: MotorDegradation,
	MotorUpgradeName:     MotorUpgrade,
	NavDriftName:         NavDrift,
}

// Names lists the built-in scenario names, sorted.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ByName builds a built-in scenario.
func ByName(name string) (*Scenario, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q, known: %v", name, Names())
	}
	return build()
}

// MotorDegradation: the motor wears, delivering less thrust per command,
// drawing more current, and responding slower. The degraded guarantee is
// piecewise (three operating regions) so the relaxation reveals itself
// gradually around the FlightController -> Motor -> PowerManager cycle.
func MotorDegradation() (*Scenario, error) {
	net, err := DroneNetwork(network.Interface{
		Producer: CompBattery, Consumer: CompNavEstimator, Variables: []string{"battery_soc"},
	})
	if err != nil {
		return nil, err
	}

	degraded := contract.New(
		region.New(
			region.MustBox(map[string]region.Interval{
				"thrust_command":    iv(0, 20),
				"voltage_available": iv(10.0, 12.6),
			}),
			region.MustBox(map[string]region.Interval{
				"thrust_command":    iv(0, 15),
				"voltage_available": iv(9.5, 10.5),
			}),
		),
		region.New(
			region.MustBox(map[string]region.Interval{
				"motor_thrust":        iv(0, 18),
				"motor_current":       iv(0, 12),
				"motor_response_time": iv(0.08, 0.6),
			}),
			region.MustBox(map[string]region.Interval{
				"motor_thrust":        iv(10, 18),
				"motor_current":       iv(8, 15),
				"motor_response_time": iv(0.3, 0.8),
			}),
			region.MustBox(map[string]region.Interval{
				"motor_thrust":        iv(0, 12),
				"motor_current":       iv(0, 8),
				"motor_response_time": iv(0.2, 1.0),
			}),
		),
	)

	return &Scenario{
		Name: MotorDegradationName,
		Description: "Motor degrades: slower response and higher current draw, " +
			"propagating around the controller-motor-power cycle over several iterations.",
		Network:   net,
		Deviation: Deviation{Component: CompMotor, Contract: &degraded},
	}, nil
}

// MotorUpgrade: the motor is replaced by a higher-grade unit with
// stricter assumptions (it demands cleaner power and tighter commands)
// and stricter guarantees. Propagation runs backward: upstream suppliers
// must strengthen their guarantees to satisfy the new assumptions.
func MotorUpgrade() (*Scenario, error) {
	net, err := DroneNetwork(
		network.Interface{Producer: CompMotor, Consumer: CompNavEstimator, Variables: []string{"motor_current"}},
		network.Interface{Producer: CompPowerManager, Consumer: CompNavEstimator, Variables: []string{"power_mode"}},
	)
	if err != nil {
		return nil, err
	}

	upgraded := contract.New(
		region.New(region.MustBox(map[string]region.Interval{
			"thrust_command":    iv(5, 25),
			"voltage_available": iv(11.5, 12.6),
		})),
		region.New(region.MustBox(map[string]region.Interval{
			"motor_thrust":        iv(5, 25),
			"motor_current":       iv(2, 12),
			"motor_response_time": iv(0.08, 0.35),
		})),
	)

	return &Scenario{
		Name: MotorUpgradeName,
		Description: "Motor is upgraded: stricter assumptions demand better inputs, " +
			"forcing upstream suppliers to strengthen their guarantees.",
		Network:   net,
		Deviation: Deviation{Component: CompMotor, Contract: &upgraded},
	}, nil
}

// NavDrift: the navigation sensors degrade, relaxing the estimator's
// guarantee in three stages. Worse position error cascades forward
// through the controller, motor, and power manager; the feedback loop
// activates the estimator's higher degradation tiers step by step.
func NavDrift() (*Scenario, error) {
	net, err := DroneNetwork(
		network.Interface{Producer: CompMotor, Consumer: CompNavEstimator, Variables: []string{"motor_current"}},
		network.Interface{Producer: CompPowerManager, Consumer: CompNavEstimator, Variables: []string{"power_mode"}},
	)
	if err != nil {
		return nil, err
	}

	drifted := contract.New(
		region.New(region.MustBox(map[string]region.Interval{
			"control_error": iv(0, 15),
			"motor_current": iv(0, 15),
			"power_mode":    iv(0, 1),
		})),
		region.New(
			region.MustBox(map[string]region.Interval{
				"nav_position_error": iv(0.5, 8),
				"nav_drift":          iv(0, 1.5),
			}),
			region.MustBox(map[string]region.Interval{
				"nav_position_error": iv(5, 12),
				"nav_drift":          iv(0.8, 2.5),
			}),
			region.MustBox(map[string]region.Interval{
				"nav_position_error": iv(8, 15),
				"nav_drift":          iv(1.5, 3.5),
			}),
		),
	)

	return &Scenario{
		Name: NavDriftName,
		Description: "Navigation sensors degrade in three stages, relaxing the position " +
			"error guarantee and cascading forward through the control loop.",
		Network:   net,
		Deviation: Deviation{Component: CompNavEstimator, Contract: &drifted},
	}, nil
}
