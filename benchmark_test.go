package byte_fifo_go

import (
	"sync"
	"testing"
)

func producer(buffer Buffer, total int, data []byte, wg *sync.WaitGroup, totalBytes *int) {
	defer wg.Done()

	for *totalBytes < total {
		*totalBytes += buffer.Write(data[:min(len(data), total-*totalBytes)])
	}
}

func consumer(buffer Buffer, total int, dataSize int, wg *sync.WaitGroup, totalBytes *int) {
	defer wg.Done()

	p := make([]byte, dataSize)

	for *totalBytes < total {
		*totalBytes += buffer.ReadInto(p)
	}
}

func benchmarkLockingRingBuffer(b *testing.B, buffer Buffer, iterations int, dataSize int) {
	var wg sync.WaitGroup

	data := make([]byte, dataSize)
	total := iterations * dataSize

	var bytesWritten, bytesRead int

	wg.Add(2)
	go producer(buffer, total, data, &wg, &bytesWritten)
	go consumer(buffer, total, dataSize, &wg, &bytesRead)
	wg.Wait()

	b.SetBytes(int64(dataSize))

	if bytesWritten != bytesRead {
		b.Fatalf("wrote %d bytes, read %d", bytesWritten, bytesRead)
	}
}

func BenchmarkLockingRingBuffer(b *testing.B) {
	const dataSize = 1024
	const bufferSize = 1 << 20

	buffer, err := NewLockingRingBuffer(bufferSize)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	benchmarkLockingRingBuffer(b, buffer, b.N, dataSize)
}

func BenchmarkRingBufferWriteRead(b *testing.B) {
	const dataSize = 1024

	buffer, err := New(3 * dataSize / 2)
	if err != nil {
		b.Fatal(err)
	}

	data := make([]byte, dataSize)
	p := make([]byte, dataSize)

	b.SetBytes(dataSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buffer.Write(data)
		buffer.ReadInto(p)
	}
}

func BenchmarkRingBufferResize(b *testing.B) {
	buffer, err := New(4096)
	if err != nil {
		b.Fatal(err)
	}

	buffer.Write(make([]byte, 3000))
	buffer.Read(2000)
	buffer.Write(make([]byte, 2000))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		capacity := 4096
		if i%2 == 0 {
			capacity = 8192
		}

		if err := buffer.Resize(capacity); err != nil {
			b.Fatal(err)
		}
	}
}
