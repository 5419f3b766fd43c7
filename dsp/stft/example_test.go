package stft_test

import (
	"fmt"

	"github.com/Griffinboy24/Griffin-FFT/dsp/stft"
)

func ExampleNew() {
	engine, err := stft.New(1024, stft.WithSampleRate(44100))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("hop:", engine.HopSize())
	fmt.Println("padded:", engine.PaddedSize())
	fmt.Println("latency:", engine.Latency())
	// Output:
	// hop: 256
	// padded: 4096
	// latency: 768
}

func ExampleEngine_ProcessSample() {
	engine, err := stft.New(64)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// The first latency samples drain as silence.
	out := engine.ProcessSample(1, true)
	fmt.Printf("%.1f\n", out)
	// Output:
	// 0.0
}
