// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package metrics

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Recorder traduz eventos do serviço em chamadas ao Provider.
// Falhas de envio são apenas logadas: métrica nunca derruba uma requisição.
type Recorder struct {
	provider Provider
}

// NewRecorder cria um Recorder. Com provider nil nada é enviado.
func NewRecorder(provider Provider) *Recorder {
	return &Recorder{provider: provider}
}

// ObserveRequest registra contagem e latência de uma requisição por rota e status.
func (r *Recorder) ObserveRequest(route string, status int, latency time.Duration) {
	if r == nil || r.provider == nil {
		return
	}
	tags := []string{"route:" + route, "status:" + strconv.Itoa(status)}

	r.send(RequestCount, r.provider.Count(RequestCount, 1, tags))
	r.send(RequestLatency, r.provider.Histogram(RequestLatency, float64(latency.Milliseconds()), tags))
}

// ObserveEvent registra o processamento de um evento assíncrono.
func (r *Recorder) ObserveEvent(eventType string, ok bool) {
	if r == nil || r.provider == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	tags := []string{"type:" + eventType, "outcome:" + outcome}
	r.send(EventCount, r.provider.Count(EventCount, 1, tags))
}

// ObservePurge registra quantos livros foram removidos numa limpeza por dono.
func (r *Recorder) ObservePurge(count int) {
	if r == nil || r.provider == nil {
		return
	}
	r.send(BooksPurged, r.provider.Gauge(BooksPurged, float64(count), nil))
}

func (r *Recorder) send(name string, err error) {
	if err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("falha ao enviar métrica")
	}
}
