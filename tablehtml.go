package main

// Single-file browser client for the shared table, served inline like
// the rest of the app. Rendering only: every decision (claims, reveal
// legality, which cards a role may see) already happened server-side.
const tableHTML = `<!doctype html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>포커 리허설 라이브</title>
<style>
  body { font-family: system-ui, -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f3f4f6; color: #1f2937; }
  .screen { display: none; min-height: 100vh; padding: 1rem; box-sizing: border-box; }
  .screen.on { display: flex; flex-direction: column; align-items: center; justify-content: center; gap: 1rem; }
  h1 { margin: 0; }
  button { font-size: 1rem; font-weight: bold; padding: 0.75rem 1.5rem; border: none; border-radius: 0.5rem; cursor: pointer; color: #fff; }
  button:disabled { opacity: 0.4; cursor: not-allowed; }
  .red { background: #dc2626; } .blue { background: #2563eb; } .gray { background: #374151; }
  #status { color: #6b7280; min-height: 1.25rem; }
  #seats { display: grid; grid-template-columns: repeat(3, 5rem); gap: 0.75rem; }
  .seat { width: 5rem; height: 5rem; border-radius: 50%; background: #3b82f6; }
  .seat.taken { background: #4b5563; opacity: 0.7; }
  .seat.mine { background: #7c3aed; }
  .seat.idle { background: #9ca3af; opacity: 0.5; }
  .cards { display: flex; gap: 1rem; flex-wrap: wrap; justify-content: center; }
  .card { width: 5.5rem; height: 7.7rem; border-radius: 0.75rem; background: #fff; border: 2px solid #d1d5db;
          display: flex; align-items: center; justify-content: center; font-size: 1.8rem; font-weight: bold; cursor: pointer; }
  .card.down { background: #1e40af; border-color: #1e3a8a; }
  .card.red { color: #dc2626; }
  #player.screen.on, #dealer.screen.on { background: #111827; color: #e5e7eb; }
  #dealer.screen.on { background: #14532d; }
  .sheet { background: #fff; border-radius: 0.75rem; padding: 1rem; max-width: 32rem; width: 100%; box-shadow: 0 4px 12px rgba(0,0,0,0.08); }
  .sheet p { margin: 0.25rem 0; }
  input[type=range] { width: 100%; }
</style>
</head>
<body>

<div id="select" class="screen on">
  <h1>포커 리허설 라이브</h1>
  <p>역할을 선택하여 리허설을 시작하세요.</p>
  <button class="red" onclick="enter('director')">감독 모드</button>
  <button class="blue" onclick="enter('lobby')">플레이어 모드</button>
  <button class="gray" onclick="enter('dealerClaim')">딜러 모드</button>
  <p><img src="table/qr" alt="QR" width="160" height="160"></p>
  <div id="status"></div>
</div>

<div id="director" class="screen">
  <h1>감독 모드 (관전)</h1>
  <div class="sheet">
    <label>참여 인원: <span id="np-label">3</span>명</label>
    <input id="np" type="range" min="2" max="9" value="3" oninput="npLabel()">
    <button class="blue" onclick="send({type:'start_session'})">세션 시작/초기화</button>
    <button class="blue" onclick="generate()">시나리오 생성</button>
  </div>
  <div id="sheet" class="sheet"></div>
</div>

<div id="lobby" class="screen">
  <h1>좌석 선택 (로비)</h1>
  <p id="lobby-hint"></p>
  <div id="seats"></div>
  <button class="gray" onclick="back()">뒤로가기</button>
</div>

<div id="dealerClaim" class="screen">
  <p>딜러 역할로 참여하는 중...</p>
  <button class="gray" onclick="back()">뒤로가기</button>
</div>

<div id="player" class="screen">
  <p id="player-seat"></p>
  <div id="player-cards" class="cards"></div>
  <button class="gray" onclick="leave()">세션 나가기</button>
</div>

<div id="dealer" class="screen">
  <p>딜러</p>
  <div id="dealer-board" class="cards"></div>
  <button class="gray" onclick="leave()">세션 나가기</button>
</div>

<script>
(function() {
  var view = null;
  var mode = 'select';

  var proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  var ws = new WebSocket(proto + location.host + location.pathname.replace(/\/$/, '') + '/ws');

  window.send = function(msg) { ws.send(JSON.stringify(msg)); };

  window.enter = function(m) {
    mode = m;
    if (m === 'director') send({type: 'director'});
    if (m === 'dealerClaim') send({type: 'claim_role', role_id: 'dealer'});
    render();
  };

  window.back = function() { mode = 'select'; render(); };
  window.leave = function() { send({type: 'leave'}); mode = 'select'; render(); };
  window.generate = function() {
    send({type: 'generate', num_players: parseInt(document.getElementById('np').value, 10)});
  };
  window.npLabel = function() {
    document.getElementById('np-label').textContent = document.getElementById('np').value;
  };

  function setStatus(text) { document.getElementById('status').textContent = text || ''; }

  function show(id) {
    document.querySelectorAll('.screen').forEach(function(el) { el.classList.remove('on'); });
    document.getElementById(id).classList.add('on');
  }

  function cardEl(code, down, onclick) {
    var el = document.createElement('div');
    el.className = 'card' + (down ? ' down' : '');
    if (!down) {
      el.textContent = code;
      var suit = code.slice(-1);
      if (suit === '♥' || suit === '♦') el.classList.add('red');
    }
    el.onclick = onclick || null;
    return el;
  }

  function render() {
    if (!view) { show('select'); return; }

    if (view.my_role === 'dealer') { mode = 'dealer'; }
    else if (view.my_role && mode !== 'director') { mode = 'player'; }

    if (mode === 'director') { show('director'); renderSheet(); return; }
    if (mode === 'player') { show('player'); renderPlayer(); return; }
    if (mode === 'dealer') { show('dealer'); renderDealer(); return; }
    if (mode === 'lobby' || mode === 'dealerClaim') {
      if (!view.present || !view.active) {
        mode = 'select';
        setStatus('현재 활성화된 리허설 세션이 없습니다. 감독이 세션을 시작할 때까지 기다려주세요.');
        show('select');
        return;
      }
      if (mode === 'lobby') { show('lobby'); renderLobby(); return; }
      show('dealerClaim');
      return;
    }
    show('select');
  }

  function renderLobby() {
    document.getElementById('lobby-hint').textContent = view.has_scenario ?
      '참여할 좌석을 선택하세요.' :
      '감독이 시나리오를 생성하고 참여 인원을 확정할 때까지 기다려주세요.';
    var grid = document.getElementById('seats');
    grid.innerHTML = '';
    for (var n = 1; n <= 9; n++) {
      (function(seat) {
        var st = (view.roles || {})[String(seat)] || {};
        var activeSeat = (view.active_seats || []).indexOf(seat) !== -1;
        var b = document.createElement('button');
        b.className = 'seat' + (st.mine ? ' mine' : st.claimed ? ' taken' : activeSeat ? '' : ' idle');
        b.textContent = st.mine ? '나' : '#' + seat;
        b.disabled = !activeSeat || (st.claimed && !st.mine);
        b.onclick = function() { send({type: 'claim_role', role_id: String(seat)}); };
        grid.appendChild(b);
      })(n);
    }
  }

  function renderPlayer() {
    document.getElementById('player-seat').textContent = '좌석 #' + view.my_role;
    var box = document.getElementById('player-cards');
    box.innerHTML = '';
    var hand = view.my_hand;
    for (var i = 0; i < 2; i++) {
      (function(idx) {
        var code = hand ? hand[idx] : '';
        var up = hand && view.flips && view.flips[idx];
        box.appendChild(cardEl(code, !up, function() {
          if (hand) send({type: 'flip_card', card_index: idx});
        }));
      })(i);
    }
  }

  function renderDealer() {
    var box = document.getElementById('dealer-board');
    box.innerHTML = '';
    if (!view.has_scenario) {
      box.textContent = '감독이 시나리오를 생성하기를 기다리는 중...';
      return;
    }
    var shown = {'pre-deal': 0, 'flop': 3, 'turn': 4, 'river': 5}[view.board_state] || 0;
    for (var i = 0; i < 5; i++) {
      (function(idx) {
        box.appendChild(cardEl(view.board[idx], idx >= shown, function() {
          send({type: 'reveal', card_index: idx});
        }));
      })(i);
    }
  }

  function renderSheet() {
    var el = document.getElementById('sheet');
    var sc = view.scenario;
    if (!sc) {
      el.innerHTML = '<p>리허설 대기중... 시나리오를 생성하세요.</p>';
      return;
    }
    var html = '<p><b>📋 ' + sc.title + '</b></p>';
    sc.hands.forEach(function(h) {
      html += '<p>' + h.role + ' (#' + h.position + '): ' + h.cards.join(' ') + '</p>';
    });
    html += '<p>보드: ' + sc.board.join(' ') + ' [' + view.board_state + ']</p>';
    html += '<p><b>🎥 ' + sc.rule.title + '</b></p>';
    html += '<p>메인 캠: ' + sc.rule.mainCam + '</p>';
    html += '<p>서브 캠: ' + sc.rule.subCam + '</p>';
    if (sc.rule.note) html += '<p>참고: ' + sc.rule.note + '</p>';
    el.innerHTML = html;
  }

  ws.onmessage = function(event) {
    var msg;
    try { msg = JSON.parse(event.data); } catch (e) { return; }

    if (msg.type === 'session') { view = msg; render(); return; }
    if (msg.type === 'error') {
      setStatus(msg.message);
      if (msg.code === 'role_unavailable' && mode === 'dealerClaim') mode = 'select';
      render();
      return;
    }
    if (msg.type === 'left') { setStatus(msg.message); }
  };

  ws.onclose = function() { setStatus('연결이 끊어졌습니다.'); };
})();
</script>
</body>
</html>
`
