package scenario

import (
	"fmt"
	"math"

	"github.com/contractnet/evolver/internal/network"
	"github.com/contractnet/evolver/internal/transform"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/milp"
	"github.com/contractnet/evolver/pkg/region"
)

// bigM for the logical (mode and tier selection) constraints in the drone
// models. Large enough to dominate every physical variable range below.
const bigM = 1000.0

// Drone component and variable names shared by the built-in scenarios.
const (
	CompFlightController = "FlightController"
	CompMotor            = "Motor"
	CompPowerManager     = "PowerManager"
	CompBattery          = "Battery"
	CompNavEstimator     = "NavigationEstimator"
)

func nonNeg(name string) milp.Var {
	return milp.Var{Name: name, Type: milp.Continuous, Lo: 0, Hi: math.Inf(1)}
}

func intVar(name string, lo, hi float64) milp.Var {
	return milp.Var{Name: name, Type: milp.Integer, Lo: lo, Hi: hi}
}

func term(coef float64, name string) milp.Term {
	return milp.Term{Coef: coef, Var: name}
}

func iv(lo, hi float64) region.Interval {
	return region.Interval{Lo: lo, Hi: hi}
}

type modelBuilder struct {
	model transform.Model
}

func newModelBuilder(component string, inputs, outputs []string) *modelBuilder {
	return &modelBuilder{model: transform.Model{
		Component: component,
		Inputs:    inputs,
		Outputs:   outputs,
	}}
}

func (b *modelBuilder) declare(vars ...milp.Var) {
	b.model.Vars = append(b.model.Vars, vars...)
}

func (b *modelBuilder) constrain(name string, rel milp.Relation, rhs float64, terms ...milp.Term) {
	b.model.Constraints = append(b.model.Constraints, milp.NewConstraint(name, rel, rhs, terms...))
}

func (b *modelBuilder) build() transform.Model {
	return b.model
}

// MotorModel: thrust delivery with three voltage-dependent efficiency
// bands, current draw coupled to voltage deficit, and response time
// degrading with low voltage and high current.
//
// Efficiency: V >= 11.5 -> 1.0, V in [10.5, 11.5) -> 0.9, V < 10.5 -> 0.8.
func MotorModel() transform.Model {
	b := newModelBuilder(CompMotor,
		[]string{"thrust_command", "voltage_available"},
		[]string{"motor_thrust", "motor_current", "motor_response_time"})

	b.declare(
		milp.Bounded("thrust_command", 0, 100),
		milp.Bounded("voltage_available", 8.0, 13.0),
		milp.Bounded("motor_thrust", 0, 100),
		milp.Bounded("motor_current", 0, 50),
		milp.Bounded("motor_response_time", 0.01, 3.0),
		milp.Bin("motor_band_0"),
		milp.Bin("motor_band_1"),
		milp.Bin("motor_band_2"),
		nonNeg("motor_voltage_deficit"),
	)

	b.constrain("band_select", milp.Equal, 1,
		term(1, "motor_band_0"), term(1, "motor_band_1"), term(1, "motor_band_2"))

	// Band membership on voltage_available.
	b.constrain("band0_lo", milp.GreaterEq, 11.5-bigM,
		term(1, "voltage_available"), term(-bigM, "motor_band_0"))
	b.constrain("band1_lo", milp.GreaterEq, 10.5-bigM,
		term(1, "voltage_available"), term(-bigM, "motor_band_1"))
	b.constrain("band1_hi", milp.LessEq, 11.5+bigM,
		term(1, "voltage_available"), term(bigM, "motor_band_1"))
	b.constrain("band2_hi", milp.LessEq, 10.5+bigM,
		term(1, "voltage_available"), term(bigM, "motor_band_2"))

	// motor_thrust = eta(band) * thrust_command, band-gated.
	for i, eta := range []float64{1.0, 0.9, 0.8} {
		band := fmt.Sprintf("motor_band_%d", i)
		b.constrain(fmt.Sprintf("thrust_band%d_ub", i), milp.LessEq, bigM,
			term(1, "motor_thrust"), term(-eta, "thrust_command"), term(bigM, band))
		b.constrain(fmt.Sprintf("thrust_band%d_lb", i), milp.GreaterEq, -bigM,
			term(1, "motor_thrust"), term(-eta, "thrust_command"), term(-bigM, band))
	}

	// deficit >= V_nom - V, V_nom = 12.
	b.constrain("voltage_deficit", milp.GreaterEq, 12.0,
		term(1, "motor_voltage_deficit"), term(1, "voltage_available"))

	// Current draw grows with thrust and voltage deficit.
	b.constrain("current_lb", milp.GreaterEq, 0,
		term(1, "motor_current"), term(-0.5, "motor_thrust"), term(-2.0, "motor_voltage_deficit"))
	b.constrain("current_ub", milp.LessEq, 1.0,
		term(1, "motor_current"), term(-0.6, "motor_thrust"), term(-2.5, "motor_voltage_deficit"))

	// response_time = 0.05 + 0.05*(12 - V) + 0.01*I, within a 0.05 band.
	b.constrain("response_lb", milp.GreaterEq, 0.65,
		term(1, "motor_response_time"), term(0.05, "voltage_available"), term(-0.01, "motor_current"))
	b.constrain("response_ub", milp.LessEq, 0.70,
		term(1, "motor_response_time"), term(0.05, "voltage_available"), term(-0.01, "motor_current"))

	return b.build()
}

// MotorBaseline is the motor's contract at nominal conditions.
func MotorBaseline() contract.Contract {
	return contract.New(
		region.New(region.MustBox(map[string]region.Interval{
			"thrust_command":    iv(0, 30),
			"voltage_available": iv(10.5, 12.6),
		})),
		region.New(region.MustBox(map[string]region.Interval{
			"motor_thrust":        iv(0, 25),
			"motor_current":       iv(0, 15),
			"motor_response_time": iv(0.05, 0.5),
		})),
	)
}

// BatteryModel: 3S LiPo with SOC-dependent open-circuit voltage
// (piecewise linear over five breakpoints), internal-resistance sag, and
// mode-dependent current caps.
func BatteryModel() transform.Model {
	b := newModelBuilder(CompBattery,
		[]string{"power_mode"},
		[]string{"battery_voltage", "battery_current", "battery_soc"})

	b.declare(
		milp.Bounded("power_mode", 0, 3),
		milp.Bounded("battery_voltage", 9.5, 12.6),
		milp.Bounded("battery_current", 0, 40),
		milp.Bounded("battery_soc", 20, 100),
		milp.Bounded("battery_v_oc", 10.8, 12.6),
	)

	// V_oc(SOC) breakpoints for a 3S pack.
	socPoints := []float64{20, 40, 60, 80, 100}
	vocPoints := []float64{10.8, 11.1, 11.4, 12.0, 12.6}

	lambdaSum := make([]milp.Term, 0, len(socPoints))
	socTerms := []milp.Term{term(1, "battery_soc")}
	vocTerms := []milp.Term{term(1, "battery_v_oc")}
	for i := range socPoints {
		lambda := fmt.Sprintf("voc_lambda_%d", i)
		b.declare(milp.Bounded(lambda, 0, 1))
		lambdaSum = append(lambdaSum, term(1, lambda))
		socTerms = append(socTerms, term(-socPoints[i], lambda))
		vocTerms = append(vocTerms, term(-vocPoints[i], lambda))
	}
	b.constrain("voc_lambda_sum", milp.Equal, 1, lambdaSum...)
	b.constrain("soc_interp", milp.Equal, 0, socTerms...)
	b.constrain("voc_interp", milp.Equal, 0, vocTerms...)

	// SOS2: one active segment, only its two endpoint lambdas may be
	// nonzero.
	segSum := make([]milp.Term, 0, len(socPoints)-1)
	for i := 0; i < len(socPoints)-1; i++ {
		seg := fmt.Sprintf("voc_seg_%d", i)
		b.declare(milp.Bin(seg))
		segSum = append(segSum, term(1, seg))
		b.constrain(fmt.Sprintf("voc_seg%d_link", i), milp.GreaterEq, 0,
			term(1, fmt.Sprintf("voc_lambda_%d", i)),
			term(1, fmt.Sprintf("voc_lambda_%d", i+1)),
			term(-1, seg))
	}
	b.constrain("voc_seg_sum", milp.Equal, 1, segSum...)

	// Loaded voltage with internal resistance R = 0.06 ohm.
	b.constrain("loaded_voltage", milp.Equal, 0,
		term(1, "battery_voltage"), term(-1, "battery_v_oc"), term(0.06, "battery_current"))

	// Protection-mode current caps: 40/30/22/15 A for modes 0..3.
	modeEncode := []milp.Term{term(1, "power_mode")}
	modeSum := make([]milp.Term, 0, 4)
	for i, cap := range []float64{40, 30, 22, 15} {
		mode := fmt.Sprintf("bat_mode_%d", i)
		b.declare(milp.Bin(mode))
		modeSum = append(modeSum, term(1, mode))
		if i > 0 {
			modeEncode = append(modeEncode, term(-float64(i), mode))
		}
		b.constrain(fmt.Sprintf("mode%d_current_cap", i), milp.LessEq, cap+bigM,
			term(1, "battery_current"), term(bigM, mode))
	}
	b.constrain("mode_select", milp.Equal, 1, modeSum...)
	b.constrain("mode_encode", milp.Equal, 0, modeEncode...)

	return b.build()
}

// BatteryBaseline is the battery's contract at nominal conditions.
func BatteryBaseline() contract.Contract {
	return contract.New(
		region.New(region.MustBox(map[string]region.Interval{
			"power_mode": iv(0, 1),
		})),
		region.New(region.MustBox(map[string]region.Interval{
			"battery_voltage": iv(11.5, 12.6),
			"battery_current": iv(0, 30),
			"battery_soc":     iv(60, 100),
		})),
	)
}

// PowerManagerModel: voltage delivery with motor-path resistance, base
// avionics load coupling, and four protection modes selected by voltage
// margin thresholds (0.6 / 0.3 / 0.1 V above the 10.2 V floor).
func PowerManagerModel() transform.Model {
	b := newModelBuilder(CompPowerManager,
		[]string{"motor_current", "battery_voltage", "battery_current"},
		[]string{"voltage_available", "power_mode", "voltage_margin"})

	b.declare(
		milp.Bounded("motor_current", 0, 50),
		milp.Bounded("battery_voltage", 9.5, 12.6),
		milp.Bounded("battery_current", 0, 40),
		milp.Bounded("voltage_available", 9.0, 12.6),
		milp.Bounded("power_mode", 0, 3),
		milp.Bounded("voltage_margin", -1.2, 2.4),
		milp.Bin("pm_mode_0"),
		milp.Bin("pm_mode_1"),
		milp.Bin("pm_mode_2"),
		milp.Bin("pm_mode_3"),
	)

	// voltage_available = battery_voltage - 0.08 * motor_current.
	b.constrain("voltage_delivery", milp.Equal, 0,
		term(1, "voltage_available"), term(-1, "battery_voltage"), term(0.08, "motor_current"))

	// Battery supplies the motor plus 2 A of avionics.
	b.constrain("current_coupling", milp.GreaterEq, 2.0,
		term(1, "battery_current"), term(-1, "motor_current"))

	// voltage_margin = voltage_available - 10.2.
	b.constrain("voltage_margin", milp.Equal, -10.2,
		term(1, "voltage_margin"), term(-1, "voltage_available"))

	b.constrain("mode_select", milp.Equal, 1,
		term(1, "pm_mode_0"), term(1, "pm_mode_1"), term(1, "pm_mode_2"), term(1, "pm_mode_3"))
	b.constrain("mode_encode", milp.Equal, 0,
		term(1, "power_mode"), term(-1, "pm_mode_1"), term(-2, "pm_mode_2"), term(-3, "pm_mode_3"))

	// Margin thresholds per mode.
	b.constrain("mode0_margin", milp.GreaterEq, 0.6-bigM,
		term(1, "voltage_margin"), term(-bigM, "pm_mode_0"))
	b.constrain("mode1_margin_lo", milp.GreaterEq, 0.3-bigM,
		term(1, "voltage_margin"), term(-bigM, "pm_mode_1"))
	b.constrain("mode1_margin_hi", milp.LessEq, 0.6+bigM,
		term(1, "voltage_margin"), term(bigM, "pm_mode_1"))
	b.constrain("mode2_margin_lo", milp.GreaterEq, 0.1-bigM,
		term(1, "voltage_margin"), term(-bigM, "pm_mode_2"))
	b.constrain("mode2_margin_hi", milp.LessEq, 0.3+bigM,
		term(1, "voltage_margin"), term(bigM, "pm_mode_2"))
	b.constrain("mode3_margin", milp.LessEq, 0.1+bigM,
		term(1, "voltage_margin"), term(bigM, "pm_mode_3"))

	return b.build()
}

// PowerManagerBaseline is the power manager's contract at nominal
// conditions.
func PowerManagerBaseline() contract.Contract {
	return contract.New(
		region.New(region.MustBox(map[string]region.Interval{
			"motor_current":   iv(0, 15),
			"battery_voltage": iv(11.5, 12.6),
			"battery_current": iv(0, 30),
		})),
		region.New(region.MustBox(map[string]region.Interval{
			"voltage_available": iv(10.5, 12.6),
			"power_mode":        iv(0, 1),
			"voltage_margin":    iv(0.3, 2.4),
		})),
	)
}

// FlightControllerModel: navigation error drives thrust demand, mode
// limits thrust authority (100/85/65/45 by mode), and control error
// composes navigation error, motor response time, saturation slack, and
// thrust tracking error.
func FlightControllerModel() transform.Model {
	b := newModelBuilder(CompFlightController,
		[]string{"motor_thrust", "motor_response_time", "nav_position_error", "power_mode"},
		[]string{"thrust_command", "control_error"})

	b.declare(
		milp.Bounded("motor_thrust", 0, 100),
		milp.Bounded("motor_response_time", 0, 2.0),
		milp.Bounded("nav_position_error", 0, 50),
		milp.Bounded("power_mode", 0, 3),
		milp.Bounded("thrust_command", 0, 100),
		milp.Bounded("control_error", 0, 100),
		milp.Bounded("fc_thrust_demand", 0, 200),
		milp.Bin("fc_mode_0"),
		milp.Bin("fc_mode_1"),
		milp.Bin("fc_mode_2"),
		milp.Bin("fc_mode_3"),
		nonNeg("fc_saturation_slack"),
		nonNeg("fc_thrust_tracking_error"),
	)

	// thrust_demand = 2 * nav_position_error.
	b.constrain("thrust_demand", milp.Equal, 0,
		term(1, "fc_thrust_demand"), term(-2.0, "nav_position_error"))

	b.constrain("mode_select", milp.Equal, 1,
		term(1, "fc_mode_0"), term(1, "fc_mode_1"), term(1, "fc_mode_2"), term(1, "fc_mode_3"))
	b.constrain("mode_encode", milp.Equal, 0,
		term(1, "power_mode"), term(-1, "fc_mode_1"), term(-2, "fc_mode_2"), term(-3, "fc_mode_3"))

	for i, authority := range []float64{100, 85, 65, 45} {
		b.constrain(fmt.Sprintf("mode%d_authority", i), milp.LessEq, authority+bigM,
			term(1, "thrust_command"), term(bigM, fmt.Sprintf("fc_mode_%d", i)))
	}
	b.constrain("command_le_demand", milp.LessEq, 0,
		term(1, "thrust_command"), term(-1, "fc_thrust_demand"))

	// slack >= demand - command.
	b.constrain("saturation_slack", milp.GreaterEq, 0,
		term(1, "fc_saturation_slack"), term(-1, "fc_thrust_demand"), term(1, "thrust_command"))

	// tracking >= |command - motor_thrust|.
	b.constrain("tracking_pos", milp.GreaterEq, 0,
		term(1, "fc_thrust_tracking_error"), term(-1, "thrust_command"), term(1, "motor_thrust"))
	b.constrain("tracking_neg", milp.GreaterEq, 0,
		term(1, "fc_thrust_tracking_error"), term(1, "thrust_command"), term(-1, "motor_thrust"))

	// control_error = nav_err + 5*response_time + 0.2*slack + 0.3*tracking,
	// within a 0.5 band.
	b.constrain("control_error_lb", milp.GreaterEq, 0,
		term(1, "control_error"), term(-1, "nav_position_error"),
		term(-5.0, "motor_response_time"), term(-0.2, "fc_saturation_slack"),
		term(-0.3, "fc_thrust_tracking_error"))
	b.constrain("control_error_ub", milp.LessEq, 0.5,
		term(1, "control_error"), term(-1, "nav_position_error"),
		term(-5.0, "motor_response_time"), term(-0.2, "fc_saturation_slack"),
		term(-0.3, "fc_thrust_tracking_error"))

	return b.build()
}

// FlightControllerBaseline is the flight controller's contract at nominal
// conditions.
func FlightControllerBaseline() contract.Contract {
	return contract.New(
		region.New(region.MustBox(map[string]region.Interval{
			"motor_thrust":        iv(0, 25),
			"motor_response_time": iv(0.05, 0.5),
			"nav_position_error":  iv(0.5, 5),
			"power_mode":          iv(0, 1),
		})),
		region.New(region.MustBox(map[string]region.Interval{
			"thrust_command": iv(0, 30),
			"control_error":  iv(0, 15),
		})),
	)
}

// NavigationEstimatorModel: estimation quality degrades through ten tiers.
// Tier k must activate when motor_current >= 4+2k or power_mode >= k/3;
// each tier shifts the position-error bounds by 0.8 and the drift bounds
// by 0.15.
func NavigationEstimatorModel() transform.Model {
	b := newModelBuilder(CompNavEstimator,
		[]string{"control_error", "motor_current", "power_mode"},
		[]string{"nav_position_error", "nav_drift"})

	const numTiers = 10

	b.declare(
		milp.Bounded("control_error", 0, 100),
		milp.Bounded("motor_current", 0, 50),
		milp.Bounded("power_mode", 0, 3),
		milp.Bounded("nav_position_error", 0, 50),
		milp.Bounded("nav_drift", 0, 10),
		intVar("nav_tier_level", 0, numTiers-1),
	)

	tierSum := make([]milp.Term, 0, numTiers)
	levelTerms := []milp.Term{term(1, "nav_tier_level")}
	for k := 0; k < numTiers; k++ {
		tier := fmt.Sprintf("nav_tier_%d", k)
		b.declare(milp.Bin(tier))
		tierSum = append(tierSum, term(1, tier))
		if k > 0 {
			levelTerms = append(levelTerms, term(-float64(k), tier))
		}
	}
	b.constrain("tier_select", milp.Equal, 1, tierSum...)
	b.constrain("tier_encode", milp.Equal, 0, levelTerms...)

	for k := 0; k < numTiers; k++ {
		currThreshold := 4.0 + 2.0*float64(k)
		modeThreshold := float64(k) / 3.0
		byCurrent := fmt.Sprintf("nav_curr_tier_%d", k)
		byMode := fmt.Sprintf("nav_mode_tier_%d", k)
		either := fmt.Sprintf("nav_or_%d", k)
		b.declare(milp.Bin(byCurrent), milp.Bin(byMode), milp.Bin(either))

		// byCurrent = 1 iff motor_current >= threshold.
		b.constrain(fmt.Sprintf("tier%d_curr_lo", k), milp.GreaterEq, currThreshold-bigM,
			term(1, "motor_current"), term(-bigM, byCurrent))
		b.constrain(fmt.Sprintf("tier%d_curr_hi", k), milp.LessEq, currThreshold,
			term(1, "motor_current"), term(-bigM, byCurrent))

		// byMode = 1 iff power_mode >= k/3.
		b.constrain(fmt.Sprintf("tier%d_mode_lo", k), milp.GreaterEq, modeThreshold-bigM,
			term(1, "power_mode"), term(-bigM, byMode))
		b.constrain(fmt.Sprintf("tier%d_mode_hi", k), milp.LessEq, modeThreshold,
			term(1, "power_mode"), term(-bigM, byMode))

		// either = byCurrent OR byMode.
		b.constrain(fmt.Sprintf("tier%d_or_curr", k), milp.GreaterEq, 0,
			term(1, either), term(-1, byCurrent))
		b.constrain(fmt.Sprintf("tier%d_or_mode", k), milp.GreaterEq, 0,
			term(1, either), term(-1, byMode))
		b.constrain(fmt.Sprintf("tier%d_or_ub", k), milp.LessEq, 0,
			term(1, either), term(-1, byCurrent), term(-1, byMode))

		// Activation forces tier_level >= k.
		b.constrain(fmt.Sprintf("tier%d_level", k), milp.GreaterEq, float64(k)-bigM,
			term(1, "nav_tier_level"), term(-bigM, either))

		// Output bounds for the active tier.
		posLo := 0.5 + 0.8*float64(k)
		posHi := 3.0 + 0.8*float64(k)
		driftLo := 0.15 * float64(k)
		driftHi := 0.5 + 0.15*float64(k)
		tier := fmt.Sprintf("nav_tier_%d", k)
		b.constrain(fmt.Sprintf("tier%d_pos_lb", k), milp.GreaterEq, posLo-bigM,
			term(1, "nav_position_error"), term(-bigM, tier))
		b.constrain(fmt.Sprintf("tier%d_pos_ub", k), milp.LessEq, posHi+bigM,
			term(1, "nav_position_error"), term(bigM, tier))
		b.constrain(fmt.Sprintf("tier%d_drift_lb", k), milp.GreaterEq, driftLo-bigM,
			term(1, "nav_drift"), term(-bigM, tier))
		b.constrain(fmt.Sprintf("tier%d_drift_ub", k), milp.LessEq, driftHi+bigM,
			term(1, "nav_drift"), term(bigM, tier))
	}

	// Control error couples directly into position error.
	b.constrain("control_coupling", milp.GreaterEq, 0,
		term(1, "nav_position_error"), term(-0.5, "control_error"))

	return b.build()
}

// NavigationEstimatorBaseline is the estimator's contract at nominal
// conditions.
func NavigationEstimatorBaseline() contract.Contract {
	return contract.New(
		region.New(region.MustBox(map[string]region.Interval{
			"control_error": iv(0, 15),
			"motor_current": iv(0, 15),
			"power_mode":    iv(0, 1),
		})),
		region.New(region.MustBox(map[string]region.Interval{
			"nav_position_error": iv(0.5, 6),
			"nav_drift":          iv(0, 1),
		})),
	)
}

// DroneNetwork wires the five drone components. The interface set is the
// common core of every built-in scenario; extra holds scenario-specific
// edges appended after the core, in order.
func DroneNetwork(extra ...network.Interface) (*network.Network, error) {
	net := network.New()

	components := []*network.Component{
		{
			Name:     CompFlightController,
			Inputs:   []string{"motor_thrust", "motor_response_time", "nav_position_error", "power_mode"},
			Outputs:  []string{"thrust_command", "control_error"},
			Model:    FlightControllerModel(),
			Baseline: FlightControllerBaseline(),
		},
		{
			Name:     CompMotor,
			Inputs:   []string{"thrust_command", "voltage_available"},
			Outputs:  []string{"motor_thrust", "motor_current", "motor_response_time"},
			Model:    MotorModel(),
			Baseline: MotorBaseline(),
		},
		{
			Name:     CompPowerManager,
			Inputs:   []string{"motor_current", "battery_voltage", "battery_current"},
			Outputs:  []string{"voltage_available", "power_mode", "voltage_margin"},
			Model:    PowerManagerModel(),
			Baseline: PowerManagerBaseline(),
		},
		{
			Name:     CompBattery,
			Inputs:   []string{"power_mode"},
			Outputs:  []string{"battery_voltage", "battery_current", "battery_soc"},
			Model:    BatteryModel(),
			Baseline: BatteryBaseline(),
		},
		{
			Name:     CompNavEstimator,
			Inputs:   []string{"control_error", "motor_current", "power_mode"},
			Outputs:  []string{"nav_position_error", "nav_drift"},
			Model:    NavigationEstimatorModel(),
			Baseline: NavigationEstimatorBaseline(),
		},
	}
	for _, c := range components {
		if err := net.AddComponent(c); err != nil {
			return nil, err
		}
	}

	// Core edges: the FlightController -> Motor -> PowerManager ->
	// FlightController cycle plus the battery and navigation loops.
	core := []network.Interface{
		{Producer: CompFlightController, Consumer: CompMotor, Variables: []string{"thrust_command"}},
		{Producer: CompMotor, Consumer: CompFlightController, Variables: []string{"motor_thrust", "motor_response_time"}},
		{Producer: CompMotor, Consumer: CompPowerManager, Variables: []string{"motor_current"}},
		{Producer: CompPowerManager, Consumer: CompMotor, Variables: []string{"voltage_available"}},
		{Producer: CompPowerManager, Consumer: CompFlightController, Variables: []string{"power_mode"}},
		{Producer: CompBattery, Consumer: CompPowerManager, Variables: []string{"battery_voltage", "battery_current"}},
		{Producer: CompPowerManager, Consumer: CompBattery, Variables: []string{"power_mode"}},
		{Producer: CompNavEstimator, Consumer: CompFlightController, Variables: []string{"nav_position_error"}},
		{Producer: CompFlightController, Consumer: CompNavEstimator, Variables: []string{"control_error"}},
	}
	for _, iface := range append(core, extra...) {
		if err := net.AddInterface(iface); err != nil {
			return nil, err
		}
	}
	return net, nil
}
