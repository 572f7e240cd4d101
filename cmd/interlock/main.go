// Command interlock runs the two-occupant ignition interlock and the
// analog-controlled wiper servo.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/ignition-interlock/internal/adc"
	"github.com/sweeney/ignition-interlock/internal/controller"
	"github.com/sweeney/ignition-interlock/internal/display"
	"github.com/sweeney/ignition-interlock/internal/gpio"
	"github.com/sweeney/ignition-interlock/internal/logic"
	"github.com/sweeney/ignition-interlock/internal/mqtt"
	"github.com/sweeney/ignition-interlock/internal/pwm"
	"github.com/sweeney/ignition-interlock/internal/sensor"
	"github.com/sweeney/ignition-interlock/internal/status"
	"github.com/sweeney/ignition-interlock/internal/web"
	"github.com/sweeney/ignition-interlock/internal/wiper"
)

func main() {
	def := defaultConfig()
	configPath := flag.String("config", "", "YAML config file (flags override it)")
	poll := flag.Duration("poll", def.Poll, "Input sampling interval")
	chip := flag.String("chip", def.Chip, "GPIO character device")
	broker := flag.String("broker", def.Broker, "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", def.Heartbeat, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", def.HTTPAddr, "HTTP status address (empty to disable)")
	printState := flag.Bool("print-state", false, "Print current inputs and exit")

	flag.Parse()

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = loadFile(*configPath, def); err != nil {
			log.Fatalf("fatal: load config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "poll":
			cfg.Poll = *poll
		case "chip":
			cfg.Chip = *chip
		case "broker":
			cfg.Broker = *broker
		case "heartbeat":
			cfg.Heartbeat = *heartbeat
		case "http":
			cfg.HTTPAddr = *httpAddr
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("fatal: invalid config: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg Config, printState bool) error {
	// Inputs
	digital, err := gpio.NewRealReader(cfg.Chip, cfg.Pins)
	if err != nil {
		return fmt.Errorf("init gpio inputs: %w", err)
	}
	defer digital.Close()

	analog, err := adc.NewRealReader(cfg.ADC)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer analog.Close()

	sampler := sensor.NewSampler(digital, analog)

	if printState {
		return printInputs(os.Stdout, sampler, cfg.Thresholds)
	}

	// Outputs
	outputs, err := gpio.NewRealWriter(cfg.Chip, cfg.Pins)
	if err != nil {
		return fmt.Errorf("init gpio outputs: %w", err)
	}
	defer outputs.Close()

	lcd, err := display.NewLCD(cfg.Display)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer lcd.Close()
	mirror := display.NewBuffer(display.Cols, display.Rows)

	servo, err := pwm.NewRealChannel(cfg.PWM)
	if err != nil {
		return fmt.Errorf("init pwm: %w", err)
	}
	defer servo.Close()

	state := wiper.NewState(logic.Wiper{Class: logic.WiperOff})
	actuator := wiper.NewActuator(cfg.Wiper, servo, state, nil)
	if err := actuator.Park(); err != nil {
		return fmt.Errorf("park wiper: %w", err)
	}

	startTime := time.Now()
	ctrl := controller.New(controller.Config{
		Sampler:  sampler,
		Machine:  logic.NewMachine(cfg.Thresholds, startTime),
		Outputs:  outputs,
		Display:  display.Multi(lcd, mirror),
		Console:  os.Stdout,
		State:    state,
		Actuator: actuator,
	})
	defer ctrl.Close()

	// Telemetry
	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.Noop{}
	if cfg.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.Broker, cfg.ClientID, mqtt.DefaultBufferSize)
		if err != nil {
			log.Printf("mqtt: %v (telemetry disabled)", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(startTime, status.Config{
		PollMs:      cfg.Poll.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPPort:    cfg.HTTPAddr,
	})

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: poll=%v broker=%q heartbeat=%v", cfg.Poll, cfg.Broker, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	err = runLoop(ctrl, mirror, actuator, publisher, publisher, tracker, cfg.Heartbeat, time.Now, ticker.C, sigCh)

	if err := actuator.Park(); err != nil {
		log.Printf("wiper: park on exit: %v", err)
	}
	return err
}

// lineSource is the display mirror.
type lineSource interface {
	Lines() []string
}

// dutySource reports the last duty written to the servo.
type dutySource interface {
	Duty() (uint32, bool)
}

func runLoop(ctrl *controller.Controller, mirror lineSource, servo dutySource, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	machine := ctrl.Machine()
	update := func() {
		if tracker == nil {
			return
		}
		duty, dutySet := servo.Duty()
		tracker.Update(status.Interlock{
			Phase:      machine.Phase(),
			Wiper:      machine.Wiper(),
			Indicators: ctrl.Indicators(),
			Counts:     machine.EventCountsSnapshot(),
			Display:    mirror.Lines(),
			Duty:       duty,
			DutySet:    dutySet,
		})
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
	}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			ctrl.Close()

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				update()
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			return nil

		case <-tick:
			t := now()
			events, err := ctrl.Step(ctx, t)
			if err != nil {
				log.Printf("sample error: %v", err)
				continue
			}

			for _, event := range events {
				logEvent(event)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			update()

			if hb := machine.CheckHeartbeat(t, heartbeat); hb != nil {
				log.Printf("heartbeat: uptime=%v phase=%s starts=%d inhibits=%d stops=%d",
					hb.Uptime, hb.Phase, hb.Counts.Starts, hb.Counts.Inhibits, hb.Counts.Stops)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hb.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func logEvent(e logic.Event) {
	switch e.Type {
	case logic.EventIgnitionInhibited:
		log.Printf("event: %s phase=%s unmet=%v", e.Type, e.Phase, e.Unmet)
	case logic.EventWiperChanged:
		log.Printf("event: %s mode=%s period=%s", e.Type, e.Wiper.Class, e.Wiper.Period)
	default:
		log.Printf("event: %s phase=%s", e.Type, e.Phase)
	}
}

// printInputs samples every input once and prints it.
func printInputs(w io.Writer, s controller.Sampler, th logic.Thresholds) error {
	d, a, err := s.Sample()
	if err != nil {
		return fmt.Errorf("sample inputs: %w", err)
	}
	wp := th.Classify(a.WiperMv, a.IntermittentMv)

	fmt.Fprintf(w, "driver_seat=%s passenger_seat=%s driver_belt=%s passenger_belt=%s ignition=%s\n",
		onOff(d.DriverSeat), onOff(d.PassengerSeat), onOff(d.DriverBelt), onOff(d.PassengerBelt), onOff(d.IgnitionButton))
	fmt.Fprintf(w, "wiper_mv=%d intermittent_mv=%d wiper=%s", a.WiperMv, a.IntermittentMv, wp.Class)
	if wp.Period != logic.PeriodNone {
		fmt.Fprintf(w, "/%s", wp.Period)
	}
	fmt.Fprintln(w)
	return nil
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
